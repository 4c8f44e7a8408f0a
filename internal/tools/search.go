package tools

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/biolens/biolens/internal/core"
	apperrors "github.com/biolens/biolens/internal/errors"
	"github.com/biolens/biolens/internal/inat"
)

type fanOutSearchArgs struct {
	Q       string `mapstructure:"q"`
	Sources string `mapstructure:"sources"`
	PerPage int    `mapstructure:"per_page"`
}

func (s *Service) fanOutSearchTool() *Tool {
	return &Tool{
		Name:        "inaturalist_search",
		Description: "Search taxa, places, projects, and users at once. Each source is queried independently; a failing source is reported alongside the others' results.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"q":        {Type: "string", Description: "Search query, e.g. \"monarch butterfly migration\""},
				"sources":  {Type: "string", Description: "Comma-separated subset of: taxa, places, projects, users", Default: "taxa,places,projects,users"},
				"per_page": {Type: "integer", Description: "Number of results per source", Default: defaultPerPageSearch},
			},
			Required: []string{"q"},
		},
		Handler: s.fanOutSearch,
	}
}

// fanOutSearch queries every requested source concurrently. Each source is
// rate-governed on its own; one source failing does not abort the rest. The
// call only fails outright when every requested source failed.
func (s *Service) fanOutSearch(ctx context.Context, args map[string]any) (any, error) {
	params := fanOutSearchArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Q) == "" {
		return nil, apperrors.NewValidationError("q is required")
	}

	sources, err := parseSources(params.Sources)
	if err != nil {
		return nil, err
	}

	_, perPage, err := pagination(0, params.PerPage, defaultPerPageSearch, 0)
	if err != nil {
		return nil, err
	}

	result := &core.FanOutResult{Query: params.Q}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failures  int
		lastError error
	)
	for _, kind := range sources {
		wg.Add(1)
		go func(kind core.SourceKind) {
			defer wg.Done()
			err := s.querySource(ctx, kind, params.Q, perPage, &mu, result)
			if err == nil {
				return
			}
			mu.Lock()
			if result.Errors == nil {
				result.Errors = make(map[core.SourceKind]string)
			}
			result.Errors[kind] = err.Error()
			failures++
			lastError = err
			mu.Unlock()
			s.log().Warn("search source failed",
				zap.String("source", string(kind)),
				zap.Error(err))
		}(kind)
	}
	wg.Wait()

	if failures == len(sources) {
		coded := apperrors.AsError(lastError)
		return nil, apperrors.NewUpstreamError(coded.StatusCode, "search",
			"all requested sources failed: "+coded.Message)
	}
	return result, nil
}

// querySource issues the query for one source kind and stores the
// normalized results under mu.
func (s *Service) querySource(ctx context.Context, kind core.SourceKind, q string, perPage int, mu *sync.Mutex, result *core.FanOutResult) error {
	query := url.Values{}
	query.Set("q", q)
	query.Set("per_page", strconv.Itoa(perPage))

	switch kind {
	case core.SourceTaxa:
		var payload inat.TaxaResponse
		if err := s.Client.Get(ctx, "/taxa", query, &payload); err != nil {
			return err
		}
		taxa := make([]core.Taxon, 0, len(payload.Results))
		for _, taxon := range payload.Results {
			taxa = append(taxa, normalizeTaxon(taxon, false))
		}
		mu.Lock()
		result.Taxa = taxa
		mu.Unlock()

	case core.SourcePlaces:
		var payload inat.PlacesResponse
		if err := s.Client.Get(ctx, "/places/autocomplete", query, &payload); err != nil {
			return err
		}
		places := make([]core.Place, 0, len(payload.Results))
		for _, place := range payload.Results {
			places = append(places, normalizePlace(place))
		}
		mu.Lock()
		result.Places = places
		mu.Unlock()

	case core.SourceProjects:
		var payload inat.ProjectsResponse
		if err := s.Client.Get(ctx, "/projects", query, &payload); err != nil {
			return err
		}
		projects := make([]core.Project, 0, len(payload.Results))
		for _, project := range payload.Results {
			projects = append(projects, normalizeProject(project))
		}
		mu.Lock()
		result.Projects = projects
		mu.Unlock()

	case core.SourceUsers:
		var payload inat.UsersResponse
		if err := s.Client.Get(ctx, "/users/autocomplete", query, &payload); err != nil {
			return err
		}
		users := make([]core.User, 0, len(payload.Results))
		for _, user := range payload.Results {
			users = append(users, normalizeUser(user))
		}
		mu.Lock()
		result.Users = users
		mu.Unlock()
	}
	return nil
}

// parseSources splits the comma-separated sources argument, defaulting to
// all four kinds when empty.
func parseSources(raw string) ([]core.SourceKind, error) {
	if strings.TrimSpace(raw) == "" {
		return core.AllSources, nil
	}

	seen := make(map[core.SourceKind]bool)
	out := make([]core.SourceKind, 0, len(core.AllSources))
	for _, part := range strings.Split(raw, ",") {
		kind := core.SourceKind(strings.ToLower(strings.TrimSpace(part)))
		if kind == "" {
			continue
		}
		if !core.ValidSource(kind) {
			return nil, apperrors.NewValidationError("unknown source %q (expected taxa, places, projects, or users)", kind)
		}
		if !seen[kind] {
			seen[kind] = true
			out = append(out, kind)
		}
	}
	if len(out) == 0 {
		return core.AllSources, nil
	}
	return out, nil
}

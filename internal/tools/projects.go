package tools

import (
	"context"
	"net/url"
	"strconv"

	"github.com/biolens/biolens/internal/core"
	apperrors "github.com/biolens/biolens/internal/errors"
	"github.com/biolens/biolens/internal/inat"
)

type searchProjectsArgs struct {
	Q       string   `mapstructure:"q"`
	Lat     *float64 `mapstructure:"lat"`
	Lng     *float64 `mapstructure:"lng"`
	PlaceID int64    `mapstructure:"place_id"`
	PerPage int      `mapstructure:"per_page"`
}

func (s *Service) searchProjectsTool() *Tool {
	return &Tool{
		Name:        "search_projects",
		Description: "Search iNaturalist community projects: bioblitzes, surveys, regional biodiversity projects.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"q":        {Type: "string", Description: "Search query, e.g. \"birds Sydney\""},
				"lat":      {Type: "number", Description: "Latitude to find nearby projects"},
				"lng":      {Type: "number", Description: "Longitude to find nearby projects"},
				"place_id": {Type: "integer", Description: "iNaturalist place ID to filter by"},
				"per_page": {Type: "integer", Description: "Number of results", Default: defaultPerPageSearch},
			},
		},
		Handler: s.searchProjects,
	}
}

func (s *Service) searchProjects(ctx context.Context, args map[string]any) (any, error) {
	params := searchProjectsArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if (params.Lat == nil) != (params.Lng == nil) {
		return nil, apperrors.NewValidationError("lat and lng must be provided together")
	}

	_, perPage, err := pagination(0, params.PerPage, defaultPerPageSearch, 0)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))
	if params.Q != "" {
		query.Set("q", params.Q)
	}
	if params.Lat != nil {
		query.Set("lat", formatFloat(*params.Lat))
		query.Set("lng", formatFloat(*params.Lng))
	}
	if params.PlaceID > 0 {
		query.Set("place_id", strconv.FormatInt(params.PlaceID, 10))
	}

	var payload inat.ProjectsResponse
	if err := s.Client.Get(ctx, "/projects", query, &payload); err != nil {
		return nil, err
	}

	result := &core.ProjectPage{
		TotalResults: payload.TotalResults,
		Results:      make([]core.Project, 0, len(payload.Results)),
	}
	for _, project := range payload.Results {
		result.Results = append(result.Results, normalizeProject(project))
	}
	return result, nil
}

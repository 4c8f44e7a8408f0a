package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/biolens/biolens/internal/errors"
	"github.com/biolens/biolens/internal/inat"
)

// upstream is a fake iNaturalist API that records every request path and
// serves canned JSON per path prefix.
type upstream struct {
	t *testing.T

	mu        sync.Mutex
	requests  []*http.Request
	responses map[string]string
	statuses  map[string]int

	srv *httptest.Server
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{
		t:         t,
		responses: make(map[string]string),
		statuses:  make(map[string]int),
	}
	u.srv = httptest.NewServer(http.HandlerFunc(u.handle))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) handle(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r)
	body, ok := u.responses[r.URL.Path]
	status := u.statuses[r.URL.Path]
	u.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		u.t.Errorf("unexpected upstream request: %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (u *upstream) respond(path, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.responses[path] = body
}

func (u *upstream) fail(path string, status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.statuses[path] = status
}

// paths returns the request paths seen so far, in order.
func (u *upstream) paths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, 0, len(u.requests))
	for _, r := range u.requests {
		out = append(out, r.URL.Path)
	}
	return out
}

// lastQuery returns the query of the most recent request to path.
func (u *upstream) lastQuery(path string) url.Values {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := len(u.requests) - 1; i >= 0; i-- {
		if u.requests[i].URL.Path == path {
			return u.requests[i].URL.Query()
		}
	}
	u.t.Fatalf("no request to %s recorded", path)
	return nil
}

func newTestService(t *testing.T, u *upstream) *Service {
	t.Helper()
	client := &inat.Client{BaseURL: u.srv.URL}
	return &Service{
		Client:   client,
		Resolver: &inat.Resolver{Client: client},
	}
}

func TestRegistryCatalogOrder(t *testing.T) {
	registry := NewRegistry(newTestService(t, newUpstream(t)))

	var names []string
	for _, tool := range registry.Tools() {
		names = append(names, tool.Name)
	}
	require.Equal(t, []string{
		"search_observations",
		"get_species_counts",
		"search_taxa",
		"get_taxon",
		"search_places",
		"get_nearby_places",
		"search_projects",
		"get_similar_species",
		"inaturalist_search",
	}, names)
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry(newTestService(t, newUpstream(t)))

	_, err := registry.Call(context.Background(), "no_such_tool", nil)
	require.Error(t, err)
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestDecodeArgsRejectsUnknownKeys(t *testing.T) {
	u := newUpstream(t)
	s := newTestService(t, u)

	_, err := s.searchTaxa(context.Background(), map[string]any{
		"q":     "platypus",
		"bogus": true,
	})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
	require.Empty(t, u.paths(), "validation must fail before any network call")
}

func TestDecodeArgsCoercesNumericStrings(t *testing.T) {
	u := newUpstream(t)
	u.respond("/taxa/12345", `{"total_results": 1, "results": [{"id": 12345, "name": "Ornithorhynchus anatinus"}]}`)
	s := newTestService(t, u)

	_, err := s.getTaxon(context.Background(), map[string]any{"taxon_id": "12345"})
	require.NoError(t, err)
}

func TestEntityRefIDWins(t *testing.T) {
	ref := entityRef{id: 7, name: "ignored"}
	id, err := ref.canonicalID(context.Background(), func(context.Context, string) (inat.ResolvedID, error) {
		t.Fatal("resolver must not be called when an id is supplied")
		return inat.ResolvedID{}, nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
}

func TestEntityRefEmpty(t *testing.T) {
	ref := entityRef{}
	require.True(t, ref.empty())

	id, err := ref.canonicalID(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, id)
}

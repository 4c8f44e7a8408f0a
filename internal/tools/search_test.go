package tools

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biolens/biolens/internal/core"
	apperrors "github.com/biolens/biolens/internal/errors"
)

func respondAllSources(u *upstream) {
	u.respond("/taxa", `{"total_results": 1, "results": [{"id": 48662, "name": "Danaus plexippus", "preferred_common_name": "Monarch"}]}`)
	u.respond("/places/autocomplete", `{"total_results": 1, "results": [{"id": 14, "name": "California"}]}`)
	u.respond("/projects", `{"total_results": 1, "results": [{"id": 100, "title": "Monarch Watch", "slug": "monarch-watch"}]}`)
	u.respond("/users/autocomplete", `{"total_results": 1, "results": [{"id": 7, "login": "monarchfan", "name": "M. Fan"}]}`)
}

func TestFanOutSearchAllSources(t *testing.T) {
	u := newUpstream(t)
	respondAllSources(u)
	s := newTestService(t, u)

	result, err := s.fanOutSearch(context.Background(), map[string]any{"q": "monarch"})
	require.NoError(t, err)

	fanout := result.(*core.FanOutResult)
	require.Equal(t, "monarch", fanout.Query)
	require.Len(t, fanout.Taxa, 1)
	require.Len(t, fanout.Places, 1)
	require.Len(t, fanout.Projects, 1)
	require.Len(t, fanout.Users, 1)
	require.Empty(t, fanout.Errors)

	paths := u.paths()
	sort.Strings(paths)
	require.Equal(t, []string{"/places/autocomplete", "/projects", "/taxa", "/users/autocomplete"}, paths)
}

func TestFanOutSearchPartialFailure(t *testing.T) {
	u := newUpstream(t)
	respondAllSources(u)
	u.fail("/users/autocomplete", http.StatusBadRequest)
	s := newTestService(t, u)

	result, err := s.fanOutSearch(context.Background(), map[string]any{"q": "monarch"})
	require.NoError(t, err, "one failing source must not fail the call")

	fanout := result.(*core.FanOutResult)
	require.Len(t, fanout.Taxa, 1)
	require.Len(t, fanout.Places, 1)
	require.Len(t, fanout.Projects, 1)
	require.Empty(t, fanout.Users)
	require.Len(t, fanout.Errors, 1)
	require.Contains(t, fanout.Errors, core.SourceUsers)
}

func TestFanOutSearchAllSourcesFail(t *testing.T) {
	u := newUpstream(t)
	u.fail("/taxa", http.StatusBadRequest)
	u.fail("/places/autocomplete", http.StatusBadRequest)
	u.fail("/projects", http.StatusBadRequest)
	u.fail("/users/autocomplete", http.StatusBadRequest)
	s := newTestService(t, u)

	_, err := s.fanOutSearch(context.Background(), map[string]any{"q": "monarch"})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeUpstreamError, apperrors.CodeOf(err))
	require.Contains(t, err.Error(), "all requested sources failed")
}

func TestFanOutSearchSubsetOfSources(t *testing.T) {
	u := newUpstream(t)
	u.respond("/taxa", `{"total_results": 0, "results": []}`)
	s := newTestService(t, u)

	result, err := s.fanOutSearch(context.Background(), map[string]any{
		"q":       "monarch",
		"sources": "taxa",
	})
	require.NoError(t, err)

	fanout := result.(*core.FanOutResult)
	require.NotNil(t, fanout.Taxa)
	require.Nil(t, fanout.Places)
	require.Equal(t, []string{"/taxa"}, u.paths(), "only the requested source may be queried")
}

func TestFanOutSearchUnknownSource(t *testing.T) {
	u := newUpstream(t)
	s := newTestService(t, u)

	_, err := s.fanOutSearch(context.Background(), map[string]any{
		"q":       "monarch",
		"sources": "taxa,wikis",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
	require.Contains(t, err.Error(), "wikis")
	require.Empty(t, u.paths())
}

func TestFanOutSearchRequiresQuery(t *testing.T) {
	u := newUpstream(t)
	s := newTestService(t, u)

	_, err := s.fanOutSearch(context.Background(), map[string]any{"q": ""})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
}

func TestParseSources(t *testing.T) {
	kinds, err := parseSources("")
	require.NoError(t, err)
	require.Equal(t, core.AllSources, kinds)

	kinds, err = parseSources(" Taxa , PLACES , taxa ")
	require.NoError(t, err)
	require.Equal(t, []core.SourceKind{core.SourceTaxa, core.SourcePlaces}, kinds)

	_, err = parseSources("observations")
	require.Error(t, err)
}

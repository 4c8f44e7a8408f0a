package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biolens/biolens/internal/core"
	apperrors "github.com/biolens/biolens/internal/errors"
)

const observationPayload = `{
	"total_results": 1,
	"results": [{
		"id": 12345,
		"observed_on": "2024-03-15",
		"place_guess": "Pacific Grove, CA, US",
		"quality_grade": "research",
		"taxon": {"id": 48662, "name": "Danaus plexippus", "preferred_common_name": "Monarch"},
		"user": {"id": 1, "login": "beetlefan"},
		"geojson": {"type": "Point", "coordinates": [-121.9166, 36.6177]},
		"photos": [{"url": "https://static.inaturalist.org/photos/1/square.jpg"}]
	}]
}`

func TestSearchObservationsNormalizes(t *testing.T) {
	u := newUpstream(t)
	u.respond("/observations", observationPayload)
	s := newTestService(t, u)

	result, err := s.searchObservations(context.Background(), map[string]any{
		"taxon_id": 48662,
	})
	require.NoError(t, err)

	page, ok := result.(*core.ObservationPage)
	require.True(t, ok)
	require.Equal(t, int64(1), page.TotalResults)
	require.Equal(t, 1, page.Page)
	require.Len(t, page.Results, 1)

	obs := page.Results[0]
	require.Equal(t, int64(12345), obs.ID)
	require.Equal(t, "Monarch", obs.CommonName)
	require.Equal(t, "Danaus plexippus", obs.Scientific)
	require.Equal(t, "beetlefan", obs.Observer)
	require.Equal(t, "2024-03-15", obs.ObservedOn)
	require.Equal(t, "research", obs.QualityGrade)
	require.NotNil(t, obs.Coordinates)
	require.InDelta(t, 36.6177, obs.Coordinates.Latitude, 1e-9)
	require.InDelta(t, -121.9166, obs.Coordinates.Longitude, 1e-9)
	require.Equal(t, "https://static.inaturalist.org/photos/1/medium.jpg", obs.PhotoURL)
	require.Equal(t, "https://www.inaturalist.org/observations/12345", obs.URL)
}

func TestSearchObservationsPlaceIDSkipsResolver(t *testing.T) {
	u := newUpstream(t)
	u.respond("/observations", `{"total_results": 0, "results": []}`)
	s := newTestService(t, u)

	_, err := s.searchObservations(context.Background(), map[string]any{
		"place_id":   6744,
		"place_name": "Australia",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"/observations"}, u.paths(),
		"an explicit place_id must not trigger a resolver round-trip")
	require.Equal(t, "6744", u.lastQuery("/observations").Get("place_id"))
}

func TestSearchObservationsResolvesPlaceName(t *testing.T) {
	u := newUpstream(t)
	u.respond("/places/autocomplete", `{"results": [{"id": 6744, "name": "Australia"}]}`)
	u.respond("/observations", `{"total_results": 0, "results": []}`)
	s := newTestService(t, u)

	_, err := s.searchObservations(context.Background(), map[string]any{
		"place_name": "Australia",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"/places/autocomplete", "/observations"}, u.paths())
	require.Equal(t, "6744", u.lastQuery("/observations").Get("place_id"))
}

func TestSearchObservationsUnresolvableNameStopsEarly(t *testing.T) {
	u := newUpstream(t)
	u.respond("/places/autocomplete", `{"results": []}`)
	s := newTestService(t, u)

	_, err := s.searchObservations(context.Background(), map[string]any{
		"place_name": "Atlantis",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	require.Equal(t, []string{"/places/autocomplete"}, u.paths(),
		"a failed resolution must not reach the main endpoint")
}

func TestSearchObservationsPerPageClamped(t *testing.T) {
	u := newUpstream(t)
	u.respond("/observations", `{"total_results": 0, "results": []}`)
	s := newTestService(t, u)

	_, err := s.searchObservations(context.Background(), map[string]any{
		"per_page": 1000,
	})
	require.NoError(t, err)
	require.Equal(t, "200", u.lastQuery("/observations").Get("per_page"))
}

func TestSearchObservationsQueryShaping(t *testing.T) {
	u := newUpstream(t)
	u.respond("/observations", `{"total_results": 0, "results": []}`)
	s := newTestService(t, u)

	_, err := s.searchObservations(context.Background(), map[string]any{
		"lat":           -33.8688,
		"lng":           151.2093,
		"d1":            "2024-01-01",
		"d2":            "2024-12-31",
		"quality_grade": "research",
		"iconic_taxa":   "Aves",
	})
	require.NoError(t, err)

	query := u.lastQuery("/observations")
	require.Equal(t, "-33.8688", query.Get("lat"))
	require.Equal(t, "151.2093", query.Get("lng"))
	require.Equal(t, "10", query.Get("radius"), "radius defaults when coordinates are set")
	require.Equal(t, "2024-01-01", query.Get("d1"))
	require.Equal(t, "2024-12-31", query.Get("d2"))
	require.Equal(t, "research", query.Get("quality_grade"))
	require.Equal(t, "Aves", query.Get("iconic_taxa"))
	require.Equal(t, "1", query.Get("page"))
	require.Equal(t, "20", query.Get("per_page"))
}

func TestSearchObservationsRejectsBadDate(t *testing.T) {
	u := newUpstream(t)
	s := newTestService(t, u)

	_, err := s.searchObservations(context.Background(), map[string]any{
		"d1": "01/15/2024",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
	require.Empty(t, u.paths())
}

func TestSpeciesCountsNormalizes(t *testing.T) {
	u := newUpstream(t)
	u.respond("/observations/species_counts", `{
		"total_results": 2,
		"results": [
			{"count": 120, "taxon": {"id": 1, "name": "Corvus coronoides", "preferred_common_name": "Australian Raven", "rank": "species"}},
			{"count": 80, "taxon": {"id": 2, "name": "Dacelo novaeguineae", "preferred_common_name": "Laughing Kookaburra", "rank": "species"}}
		]
	}`)
	s := newTestService(t, u)

	result, err := s.speciesCounts(context.Background(), map[string]any{
		"place_id": 6744,
	})
	require.NoError(t, err)

	page, ok := result.(*core.SpeciesCountPage)
	require.True(t, ok)
	require.Equal(t, int64(2), page.TotalResults)
	require.Len(t, page.Results, 2)
	require.Equal(t, int64(120), page.Results[0].Count)
	require.Equal(t, "Australian Raven", page.Results[0].Taxon.CommonName)
}

func TestSpeciesCountsResolvesTaxonName(t *testing.T) {
	u := newUpstream(t)
	u.respond("/taxa/autocomplete", `{"results": [{"id": 48662, "name": "Danaus plexippus"}]}`)
	u.respond("/observations/species_counts", `{"total_results": 0, "results": []}`)
	s := newTestService(t, u)

	_, err := s.speciesCounts(context.Background(), map[string]any{
		"taxon_name": "monarch",
	})
	require.NoError(t, err)
	require.Equal(t, "48662", u.lastQuery("/observations/species_counts").Get("taxon_id"))
}

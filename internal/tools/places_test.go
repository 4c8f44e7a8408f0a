package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biolens/biolens/internal/core"
	apperrors "github.com/biolens/biolens/internal/errors"
)

func TestSearchPlacesNormalizes(t *testing.T) {
	u := newUpstream(t)
	u.respond("/places/autocomplete", `{
		"total_results": 1,
		"results": [{
			"id": 6744,
			"name": "Australia",
			"display_name": "Australia",
			"place_type": 12,
			"admin_level": 0,
			"bounding_box_geojson": {"coordinates": [[[112.9, -43.7], [153.7, -43.7], [153.7, -10.0], [112.9, -10.0], [112.9, -43.7]]]}
		}]
	}`)
	s := newTestService(t, u)

	result, err := s.searchPlaces(context.Background(), map[string]any{"q": "Australia"})
	require.NoError(t, err)

	page := result.(*core.PlacePage)
	require.Len(t, page.Results, 1)

	place := page.Results[0]
	require.Equal(t, int64(6744), place.ID)
	require.Equal(t, "Australia", place.DisplayName)
	require.NotNil(t, place.PlaceType)
	require.Equal(t, 12, *place.PlaceType)
	require.NotNil(t, place.Bounds)
	require.InDelta(t, -43.7, place.Bounds.SWLat, 1e-9)
	require.InDelta(t, 112.9, place.Bounds.SWLng, 1e-9)
	require.InDelta(t, -10.0, place.Bounds.NELat, 1e-9)
	require.InDelta(t, 153.7, place.Bounds.NELng, 1e-9)
}

func TestSearchPlacesRequiresQuery(t *testing.T) {
	u := newUpstream(t)
	s := newTestService(t, u)

	_, err := s.searchPlaces(context.Background(), map[string]any{})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
	require.Empty(t, u.paths())
}

func TestNearbyPlacesBoundingBox(t *testing.T) {
	u := newUpstream(t)
	u.respond("/places/nearby", `{
		"total_results": 2,
		"results": {
			"standard": [{"id": 14, "name": "California", "display_name": "California, US"}],
			"community": [{"id": 555, "name": "Monterey Bay"}]
		}
	}`)
	s := newTestService(t, u)

	result, err := s.nearbyPlaces(context.Background(), map[string]any{
		"lat": 36.6,
		"lng": -121.9,
	})
	require.NoError(t, err)

	query := u.lastQuery("/places/nearby")
	require.Equal(t, "37.1", query.Get("nelat"))
	require.Equal(t, "-121.4", query.Get("nelng"))
	require.Equal(t, "36.1", query.Get("swlat"))
	require.Equal(t, "-122.4", query.Get("swlng"))

	nearby := result.(*core.NearbyPlaces)
	require.Len(t, nearby.Standard, 1)
	require.Equal(t, "California, US", nearby.Standard[0].DisplayName)
	require.Len(t, nearby.Community, 1)
	require.Equal(t, "Monterey Bay", nearby.Community[0].DisplayName, "display_name falls back to name")
}

func TestNearbyPlacesRequiresCoordinates(t *testing.T) {
	u := newUpstream(t)
	s := newTestService(t, u)

	for _, args := range []map[string]any{
		{},
		{"lat": 36.6},
		{"lng": -121.9},
	} {
		_, err := s.nearbyPlaces(context.Background(), args)
		require.Error(t, err)
		require.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
	}
	require.Empty(t, u.paths())
}

func TestNearbyPlacesRejectsOutOfRange(t *testing.T) {
	u := newUpstream(t)
	s := newTestService(t, u)

	_, err := s.nearbyPlaces(context.Background(), map[string]any{"lat": 95.0, "lng": 10.0})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))

	_, err = s.nearbyPlaces(context.Background(), map[string]any{"lat": 10.0, "lng": -181.0})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
}

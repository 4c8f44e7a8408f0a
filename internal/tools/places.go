package tools

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/biolens/biolens/internal/core"
	apperrors "github.com/biolens/biolens/internal/errors"
	"github.com/biolens/biolens/internal/inat"
)

// nearbyBoxDegrees is the half-width of the bounding box derived from a
// point for the nearby-places lookup.
const nearbyBoxDegrees = 0.5

type searchPlacesArgs struct {
	Q       string `mapstructure:"q"`
	PerPage int    `mapstructure:"per_page"`
}

func (s *Service) searchPlacesTool() *Tool {
	return &Tool{
		Name:        "search_places",
		Description: "Search iNaturalist places by name. Returns place IDs usable in other tools.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"q":        {Type: "string", Description: "Place name, e.g. \"Yellowstone\", \"Costa Rica\""},
				"per_page": {Type: "integer", Description: "Number of results", Default: defaultPerPageSearch},
			},
			Required: []string{"q"},
		},
		Handler: s.searchPlaces,
	}
}

func (s *Service) searchPlaces(ctx context.Context, args map[string]any) (any, error) {
	params := searchPlacesArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Q) == "" {
		return nil, apperrors.NewValidationError("q is required")
	}

	_, perPage, err := pagination(0, params.PerPage, defaultPerPageSearch, 0)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", params.Q)
	query.Set("per_page", strconv.Itoa(perPage))

	var payload inat.PlacesResponse
	if err := s.Client.Get(ctx, "/places/autocomplete", query, &payload); err != nil {
		return nil, err
	}

	result := &core.PlacePage{
		TotalResults: payload.TotalResults,
		Results:      make([]core.Place, 0, len(payload.Results)),
	}
	for _, place := range payload.Results {
		result.Results = append(result.Results, normalizePlace(place))
	}
	return result, nil
}

type nearbyPlacesArgs struct {
	Lat *float64 `mapstructure:"lat"`
	Lng *float64 `mapstructure:"lng"`
}

func (s *Service) nearbyPlacesTool() *Tool {
	return &Tool{
		Name:        "get_nearby_places",
		Description: "Find iNaturalist places near a set of coordinates.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"lat": {Type: "number", Description: "Latitude"},
				"lng": {Type: "number", Description: "Longitude"},
			},
			Required: []string{"lat", "lng"},
		},
		Handler: s.nearbyPlaces,
	}
}

func (s *Service) nearbyPlaces(ctx context.Context, args map[string]any) (any, error) {
	params := nearbyPlacesArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.Lat == nil || params.Lng == nil {
		return nil, apperrors.NewValidationError("lat and lng are required")
	}
	if *params.Lat < -90 || *params.Lat > 90 {
		return nil, apperrors.NewValidationError("lat must be between -90 and 90, got %v", *params.Lat)
	}
	if *params.Lng < -180 || *params.Lng > 180 {
		return nil, apperrors.NewValidationError("lng must be between -180 and 180, got %v", *params.Lng)
	}

	query := url.Values{}
	query.Set("nelat", formatFloat(*params.Lat+nearbyBoxDegrees))
	query.Set("nelng", formatFloat(*params.Lng+nearbyBoxDegrees))
	query.Set("swlat", formatFloat(*params.Lat-nearbyBoxDegrees))
	query.Set("swlng", formatFloat(*params.Lng-nearbyBoxDegrees))

	var payload inat.NearbyPlacesResponse
	if err := s.Client.Get(ctx, "/places/nearby", query, &payload); err != nil {
		return nil, err
	}

	result := &core.NearbyPlaces{
		Standard:  make([]core.Place, 0, len(payload.Results.Standard)),
		Community: make([]core.Place, 0, len(payload.Results.Community)),
	}
	for _, place := range payload.Results.Standard {
		result.Standard = append(result.Standard, normalizePlace(place))
	}
	for _, place := range payload.Results.Community {
		result.Community = append(result.Community, normalizePlace(place))
	}
	return result, nil
}

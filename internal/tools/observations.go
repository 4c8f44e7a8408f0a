package tools

import (
	"context"
	"net/url"
	"strconv"

	"github.com/biolens/biolens/internal/core"
	"github.com/biolens/biolens/internal/inat"
)

type searchObservationsArgs struct {
	locationArgs  `mapstructure:",squash"`
	taxonArgs     `mapstructure:",squash"`
	dateRangeArgs `mapstructure:",squash"`

	QualityGrade string `mapstructure:"quality_grade"`
	IconicTaxa   string `mapstructure:"iconic_taxa"`
	Page         int    `mapstructure:"page"`
	PerPage      int    `mapstructure:"per_page"`
}

func (s *Service) searchObservationsTool() *Tool {
	return &Tool{
		Name:        "search_observations",
		Description: "Search iNaturalist observations by location, species, date, and quality grade.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"lat":           {Type: "number", Description: "Latitude for location-based search"},
				"lng":           {Type: "number", Description: "Longitude for location-based search"},
				"radius":        {Type: "number", Description: "Search radius in km, used with lat/lng", Default: defaultRadiusKM},
				"place_name":    {Type: "string", Description: "Place name to search within, e.g. \"Australia\""},
				"place_id":      {Type: "integer", Description: "iNaturalist place ID to search within"},
				"taxon_name":    {Type: "string", Description: "Common or scientific name to filter by"},
				"taxon_id":      {Type: "integer", Description: "iNaturalist taxon ID to filter by"},
				"d1":            {Type: "string", Description: "Start date (YYYY-MM-DD)"},
				"d2":            {Type: "string", Description: "End date (YYYY-MM-DD)"},
				"quality_grade": {Type: "string", Description: "Quality tier", Enum: []string{"research", "needs_id", "casual"}},
				"iconic_taxa":   {Type: "string", Description: "Iconic group filter, e.g. Aves, Mammalia, Insecta, Plantae"},
				"page":          {Type: "integer", Description: "Page number", Default: 1},
				"per_page":      {Type: "integer", Description: "Results per page (max 200)", Default: defaultPerPageObservations},
			},
		},
		Handler: s.searchObservations,
	}
}

func (s *Service) searchObservations(ctx context.Context, args map[string]any) (any, error) {
	params := searchObservationsArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	page, perPage, err := pagination(params.Page, params.PerPage, defaultPerPageObservations, maxPerPageObservations)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	if err := params.locationArgs.apply(ctx, s, query); err != nil {
		return nil, err
	}
	if err := params.taxonArgs.apply(ctx, s, query); err != nil {
		return nil, err
	}
	if err := params.dateRangeArgs.apply(query); err != nil {
		return nil, err
	}
	if params.QualityGrade != "" {
		query.Set("quality_grade", params.QualityGrade)
	}
	if params.IconicTaxa != "" {
		query.Set("iconic_taxa", params.IconicTaxa)
	}

	var payload inat.ObservationsResponse
	if err := s.Client.Get(ctx, "/observations", query, &payload); err != nil {
		return nil, err
	}

	result := &core.ObservationPage{
		TotalResults: payload.TotalResults,
		Page:         page,
		Results:      make([]core.Observation, 0, len(payload.Results)),
	}
	for _, obs := range payload.Results {
		result.Results = append(result.Results, normalizeObservation(obs))
	}
	return result, nil
}

type speciesCountsArgs struct {
	locationArgs  `mapstructure:",squash"`
	taxonArgs     `mapstructure:",squash"`
	dateRangeArgs `mapstructure:",squash"`

	QualityGrade string `mapstructure:"quality_grade"`
	IconicTaxa   string `mapstructure:"iconic_taxa"`
	PerPage      int    `mapstructure:"per_page"`
}

func (s *Service) speciesCountsTool() *Tool {
	return &Tool{
		Name:        "get_species_counts",
		Description: "List species observed in a location scope, ranked by observation count.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"lat":           {Type: "number", Description: "Latitude for location-based search"},
				"lng":           {Type: "number", Description: "Longitude for location-based search"},
				"radius":        {Type: "number", Description: "Search radius in km, used with lat/lng", Default: defaultRadiusKM},
				"place_name":    {Type: "string", Description: "Place name, e.g. \"Kruger National Park\""},
				"place_id":      {Type: "integer", Description: "iNaturalist place ID"},
				"taxon_name":    {Type: "string", Description: "Restrict counts to a taxon group by name"},
				"taxon_id":      {Type: "integer", Description: "Restrict counts to a taxon group by ID"},
				"d1":            {Type: "string", Description: "Start date (YYYY-MM-DD)"},
				"d2":            {Type: "string", Description: "End date (YYYY-MM-DD)"},
				"quality_grade": {Type: "string", Description: "Quality tier", Enum: []string{"research", "needs_id", "casual"}},
				"iconic_taxa":   {Type: "string", Description: "Iconic group filter, e.g. Aves, Mammalia, Insecta, Plantae"},
				"per_page":      {Type: "integer", Description: "Number of species to return (max 200)", Default: defaultPerPageObservations},
			},
		},
		Handler: s.speciesCounts,
	}
}

func (s *Service) speciesCounts(ctx context.Context, args map[string]any) (any, error) {
	params := speciesCountsArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	_, perPage, err := pagination(0, params.PerPage, defaultPerPageObservations, maxPerPageObservations)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))

	if err := params.locationArgs.apply(ctx, s, query); err != nil {
		return nil, err
	}
	if err := params.taxonArgs.apply(ctx, s, query); err != nil {
		return nil, err
	}
	if err := params.dateRangeArgs.apply(query); err != nil {
		return nil, err
	}
	if params.QualityGrade != "" {
		query.Set("quality_grade", params.QualityGrade)
	}
	if params.IconicTaxa != "" {
		query.Set("iconic_taxa", params.IconicTaxa)
	}

	var payload inat.SpeciesCountsResponse
	if err := s.Client.Get(ctx, "/observations/species_counts", query, &payload); err != nil {
		return nil, err
	}

	result := &core.SpeciesCountPage{
		TotalResults: payload.TotalResults,
		Results:      make([]core.SpeciesCount, 0, len(payload.Results)),
	}
	for _, item := range payload.Results {
		result.Results = append(result.Results, normalizeSpeciesCount(item))
	}
	return result, nil
}

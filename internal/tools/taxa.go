package tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/biolens/biolens/internal/core"
	apperrors "github.com/biolens/biolens/internal/errors"
	"github.com/biolens/biolens/internal/inat"
)

type searchTaxaArgs struct {
	Q        string `mapstructure:"q"`
	IsActive *bool  `mapstructure:"is_active"`
	Rank     string `mapstructure:"rank"`
	PerPage  int    `mapstructure:"per_page"`
}

func (s *Service) searchTaxaTool() *Tool {
	return &Tool{
		Name:        "search_taxa",
		Description: "Search for species or higher taxa by common or scientific name.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"q":         {Type: "string", Description: "Common or scientific name, e.g. \"platypus\""},
				"is_active": {Type: "boolean", Description: "Only currently accepted taxa"},
				"rank":      {Type: "string", Description: "Taxonomic rank filter", Enum: []string{"species", "genus", "family", "order", "class", "phylum", "kingdom"}},
				"per_page":  {Type: "integer", Description: "Number of results (max 30)", Default: defaultPerPageSearch},
			},
			Required: []string{"q"},
		},
		Handler: s.searchTaxa,
	}
}

func (s *Service) searchTaxa(ctx context.Context, args map[string]any) (any, error) {
	params := searchTaxaArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Q) == "" {
		return nil, apperrors.NewValidationError("q is required")
	}

	_, perPage, err := pagination(0, params.PerPage, defaultPerPageSearch, maxPerPageTaxa)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", params.Q)
	query.Set("per_page", strconv.Itoa(perPage))
	if params.IsActive != nil {
		query.Set("is_active", strconv.FormatBool(*params.IsActive))
	}
	if params.Rank != "" {
		query.Set("rank", params.Rank)
	}

	var payload inat.TaxaResponse
	if err := s.Client.Get(ctx, "/taxa/autocomplete", query, &payload); err != nil {
		return nil, err
	}

	result := &core.TaxonPage{
		TotalResults: payload.TotalResults,
		Results:      make([]core.Taxon, 0, len(payload.Results)),
	}
	for _, taxon := range payload.Results {
		result.Results = append(result.Results, normalizeTaxon(taxon, false))
	}
	return result, nil
}

type getTaxonArgs struct {
	TaxonID int64 `mapstructure:"taxon_id"`
}

func (s *Service) getTaxonTool() *Tool {
	return &Tool{
		Name:        "get_taxon",
		Description: "Get detailed information about a taxon: ancestry, conservation status, Wikipedia summary, photo.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"taxon_id": {Type: "integer", Description: "The iNaturalist taxon ID"},
			},
			Required: []string{"taxon_id"},
		},
		Handler: s.getTaxon,
	}
}

func (s *Service) getTaxon(ctx context.Context, args map[string]any) (any, error) {
	params := getTaxonArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.TaxonID <= 0 {
		return nil, apperrors.NewValidationError("taxon_id must be a positive integer")
	}

	var payload inat.TaxaResponse
	path := fmt.Sprintf("/taxa/%d", params.TaxonID)
	if err := s.Client.Get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, apperrors.NewNotFoundError("no taxon found with ID %d", params.TaxonID)
	}

	taxon := normalizeTaxon(payload.Results[0], true)
	return &taxon, nil
}

type similarSpeciesArgs struct {
	TaxonID int64 `mapstructure:"taxon_id"`
	PlaceID int64 `mapstructure:"place_id"`
}

func (s *Service) similarSpeciesTool() *Tool {
	return &Tool{
		Name:        "get_similar_species",
		Description: "List species commonly confused with a given taxon, optionally scoped to a place.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"taxon_id": {Type: "integer", Description: "Taxon ID to find similar species for"},
				"place_id": {Type: "integer", Description: "Optional place ID for regionally relevant results"},
			},
			Required: []string{"taxon_id"},
		},
		Handler: s.similarSpecies,
	}
}

func (s *Service) similarSpecies(ctx context.Context, args map[string]any) (any, error) {
	params := similarSpeciesArgs{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.TaxonID <= 0 {
		return nil, apperrors.NewValidationError("taxon_id must be a positive integer")
	}

	query := url.Values{}
	query.Set("taxon_id", strconv.FormatInt(params.TaxonID, 10))
	if params.PlaceID > 0 {
		query.Set("place_id", strconv.FormatInt(params.PlaceID, 10))
	}

	var payload inat.SpeciesCountsResponse
	if err := s.Client.Get(ctx, "/identifications/similar_species", query, &payload); err != nil {
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

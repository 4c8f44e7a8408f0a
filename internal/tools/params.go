package tools

import (
	"context"
	"net/url"
	"regexp"
	"strconv"

	apperrors "github.com/biolens/biolens/internal/errors"
)

// Documented pagination bounds from the tool catalog.
const (
	maxPerPageObservations = 200
	maxPerPageTaxa         = 30

	defaultPerPageObservations = 20
	defaultPerPageSearch       = 10

	defaultRadiusKM = 10
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// locationArgs are the shared location arguments of the observation-scoped
// tools. A place id and a place name may both be present; the id wins and
// the name is never resolved in that case.
type locationArgs struct {
	Lat       *float64 `mapstructure:"lat"`
	Lng       *float64 `mapstructure:"lng"`
	Radius    *float64 `mapstructure:"radius"`
	PlaceName string   `mapstructure:"place_name"`
	PlaceID   int64    `mapstructure:"place_id"`
}

// apply validates the location arguments and writes them onto the query.
// Coordinates and a place filter are both forwarded when both are present;
// upstream intersects them.
func (a locationArgs) apply(ctx context.Context, s *Service, query url.Values) error {
	if (a.Lat == nil) != (a.Lng == nil) {
		return apperrors.NewValidationError("lat and lng must be provided together")
	}
	if a.Lat != nil {
		if *a.Lat < -90 || *a.Lat > 90 {
			return apperrors.NewValidationError("lat must be between -90 and 90, got %v", *a.Lat)
		}
		if *a.Lng < -180 || *a.Lng > 180 {
			return apperrors.NewValidationError("lng must be between -180 and 180, got %v", *a.Lng)
		}
		radius := float64(defaultRadiusKM)
		if a.Radius != nil {
			if *a.Radius <= 0 {
				return apperrors.NewValidationError("radius must be positive, got %v", *a.Radius)
			}
			radius = *a.Radius
		}
		query.Set("lat", formatFloat(*a.Lat))
		query.Set("lng", formatFloat(*a.Lng))
		query.Set("radius", formatFloat(radius))
	} else if a.Radius != nil {
		return apperrors.NewValidationError("radius requires lat and lng")
	}

	ref := entityRef{id: a.PlaceID, name: a.PlaceName}
	placeID, err := ref.canonicalID(ctx, s.Resolver.ResolvePlace)
	if err != nil {
		return err
	}
	if placeID > 0 {
		query.Set("place_id", strconv.FormatInt(placeID, 10))
	}
	return nil
}

// taxonArgs is the shared taxon filter: a name-or-id reference.
type taxonArgs struct {
	TaxonName string `mapstructure:"taxon_name"`
	TaxonID   int64  `mapstructure:"taxon_id"`
}

func (a taxonArgs) apply(ctx context.Context, s *Service, query url.Values) error {
	ref := entityRef{id: a.TaxonID, name: a.TaxonName}
	taxonID, err := ref.canonicalID(ctx, s.Resolver.ResolveTaxon)
	if err != nil {
		return err
	}
	if taxonID > 0 {
		query.Set("taxon_id", strconv.FormatInt(taxonID, 10))
	}
	return nil
}

// dateRangeArgs are the optional observation date bounds. Only the format
// is checked here; upstream is the source of truth for d1 <= d2.
type dateRangeArgs struct {
	D1 string `mapstructure:"d1"`
	D2 string `mapstructure:"d2"`
}

func (a dateRangeArgs) apply(query url.Values) error {
	for _, field := range []struct{ name, value string }{{"d1", a.D1}, {"d2", a.D2}} {
		if field.value == "" {
			continue
		}
		if !dateFormat.MatchString(field.value) {
			return apperrors.NewValidationError("%s must be formatted YYYY-MM-DD, got %q", field.name, field.value)
		}
		query.Set(field.name, field.value)
	}
	return nil
}

// pagination validates page/per_page and applies the tool's documented
// default and maximum. Values above the maximum are clamped, never
// rejected; zero means absent.
func pagination(page, perPage, defaultPerPage, maxPerPage int) (int, int, error) {
	if page < 0 {
		return 0, 0, apperrors.NewValidationError("page must be a positive integer, got %d", page)
	}
	if perPage < 0 {
		return 0, 0, apperrors.NewValidationError("per_page must be a positive integer, got %d", perPage)
	}
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package inat

import (
	"context"
	"net/url"
	"strings"

	apperrors "github.com/biolens/biolens/internal/errors"
)

// ResolvedID is a numeric upstream identifier plus the label that matched.
type ResolvedID struct {
	ID    int64
	Label string
}

// Resolver turns human-supplied names into upstream numeric identifiers via
// the autocomplete endpoints. Resolution is best-effort by design: the
// top-ranked match wins and alternatives are never surfaced, so a vague name
// may resolve to a different entity than the caller had in mind.
type Resolver struct {
	Client *Client
}

// ResolveTaxon resolves a common or scientific taxon name to a taxon id.
func (r *Resolver) ResolveTaxon(ctx context.Context, name string) (ResolvedID, error) {
	return r.resolve(ctx, "/taxa/autocomplete", "taxon", name)
}

// ResolvePlace resolves a place name to a place id.
func (r *Resolver) ResolvePlace(ctx context.Context, name string) (ResolvedID, error) {
	return r.resolve(ctx, "/places/autocomplete", "place", name)
}

func (r *Resolver) resolve(ctx context.Context, path, kind, name string) (ResolvedID, error) {
	value := strings.TrimSpace(name)
	if value == "" {
		return ResolvedID{}, apperrors.NewValidationError("%s name is required", kind)
	}

	query := url.Values{}
	query.Set("q", value)
	query.Set("per_page", "1")

	var payload struct {
		Results []struct {
			ID                  int64  `json:"id"`
			Name                string `json:"name"`
			DisplayName         string `json:"display_name"`
			PreferredCommonName string `json:"preferred_common_name"`
		} `json:"results"`
	}
	if err := r.Client.Get(ctx, path, query, &payload); err != nil {
		return ResolvedID{}, err
	}

	if len(payload.Results) == 0 {
		return ResolvedID{}, apperrors.NewNotFoundError("no %s matched %q", kind, value)
	}

	top := payload.Results[0]
	label := top.PreferredCommonName
	if label == "" {
		label = top.DisplayName
	}
	if label == "" {
		label = top.Name
	}
	return ResolvedID{ID: top.ID, Label: label}, nil
}

package tools

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/biolens/biolens/internal/core"
	"github.com/biolens/biolens/internal/inat"
)

// Normalizers strip verbose upstream payloads down to the fields the tool
// catalog promises. Absent upstream fields are silently omitted, never an
// error.

const (
	wikipediaSummaryLimit   = 300
	projectDescriptionLimit = 200

	observationURLPrefix = "https://www.inaturalist.org/observations/"
	projectURLPrefix     = "https://www.inaturalist.org/projects/"
)

var htmlTags = regexp.MustCompile(`<[^>]+>`)

func normalizeObservation(o inat.Observation) core.Observation {
	out := core.Observation{
		ID:           o.ID,
		ObservedOn:   o.ObservedOn,
		PlaceGuess:   o.PlaceGuess,
		QualityGrade: o.QualityGrade,
		URL:          fmt.Sprintf("%s%d", observationURLPrefix, o.ID),
	}
	if o.Taxon != nil {
		out.CommonName = o.Taxon.PreferredCommonName
		out.Scientific = o.Taxon.Name
	}
	if o.User != nil {
		out.Observer = o.User.Login
	}
	if o.ObservedOnDetails != nil && o.ObservedOnDetails.Date != "" {
		out.ObservedOn = o.ObservedOnDetails.Date
	}
	if o.Geojson != nil && len(o.Geojson.Coordinates) == 2 {
		// Upstream geojson orders coordinates [lng, lat].
		out.Coordinates = &core.Coordinates{
			Latitude:  o.Geojson.Coordinates[1],
			Longitude: o.Geojson.Coordinates[0],
		}
	}
	if len(o.Photos) > 0 && o.Photos[0].URL != "" {
		// Upstream hands out square thumbnails; medium is more useful.
		out.PhotoURL = strings.Replace(o.Photos[0].URL, "square", "medium", 1)
	}
	return out
}

func normalizeTaxon(t inat.Taxon, detailed bool) core.Taxon {
	out := core.Taxon{
		ID:                t.ID,
		CommonName:        t.PreferredCommonName,
		Scientific:        t.Name,
		Rank:              t.Rank,
		ObservationsCount: t.ObservationsCount,
		PhotoURL:          photoURL(t.DefaultPhoto),
	}

	if !detailed {
		return out
	}

	for _, a := range t.Ancestors {
		out.Ancestors = append(out.Ancestors, core.Ancestor{
			ID:   a.ID,
			Name: ancestorLabel(a),
			Rank: a.Rank,
		})
	}
	if t.ConservationStatus != nil {
		out.ConservationStatus = t.ConservationStatus.Status
		if out.ConservationStatus == "" {
			out.ConservationStatus = t.ConservationStatus.StatusName
		}
	}
	if t.WikipediaSummary != "" {
		out.WikipediaSummary = truncate(stripHTML(t.WikipediaSummary), wikipediaSummaryLimit)
	}
	return out
}

func normalizeSpeciesCount(c inat.SpeciesCount) core.SpeciesCount {
	out := core.SpeciesCount{Count: c.Count}
	if c.Taxon != nil {
		out.Taxon = normalizeTaxon(*c.Taxon, false)
	}
	return out
}

func normalizePlace(p inat.Place) core.Place {
	out := core.Place{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		PlaceType:   p.PlaceType,
		AdminLevel:  p.AdminLevel,
	}
	if out.DisplayName == "" {
		out.DisplayName = p.Name
	}
	if p.BoundingBox != nil {
		out.Bounds = boundsFromPolygon(p.BoundingBox.Coordinates)
	}
	return out
}

func normalizeProject(p inat.Project) core.Project {
	slug := p.Slug
	if slug == "" {
		slug = fmt.Sprintf("%d", p.ID)
	}
	return core.Project{
		ID:                p.ID,
		Title:             p.Title,
		Description:       truncate(strings.TrimSpace(stripHTML(p.Description)), projectDescriptionLimit),
		PlaceID:           p.PlaceID,
		ObservationsCount: p.ObservationsCount,
		MembersCount:      p.MembersCount,
		URL:               projectURLPrefix + slug,
	}
}

func normalizeUser(u inat.User) core.User {
	return core.User{
		ID:                u.ID,
		Login:             u.Login,
		Name:              u.Name,
		ObservationsCount: u.ObservationsCount,
	}
}

func ancestorLabel(t inat.Taxon) string {
	if t.PreferredCommonName != "" {
		return t.PreferredCommonName
	}
	return t.Name
}

func photoURL(p *inat.Photo) string {
	if p == nil {
		return ""
	}
	if p.MediumURL != "" {
		return p.MediumURL
	}
	return p.URL
}

// boundsFromPolygon reduces a bounding polygon ring to its corner
// coordinates. Rings with fewer than three points are ignored.
func boundsFromPolygon(rings [][][]float64) *core.BoundingBox {
	if len(rings) == 0 || len(rings[0]) < 3 {
		return nil
	}

	box := &core.BoundingBox{}
	first := true
	for _, point := range rings[0] {
		if len(point) < 2 {
			continue
		}
		lng, lat := point[0], point[1]
		if first {
			box.SWLat, box.NELat = lat, lat
			box.SWLng, box.NELng = lng, lng
			first = false
			continue
		}
		if lat < box.SWLat {
			box.SWLat = lat
		}
		if lat > box.NELat {
			box.NELat = lat
		}
		if lng < box.SWLng {
			box.SWLng = lng
		}
		if lng > box.NELng {
			box.NELng = lng
		}
	}
	if first {
		return nil
	}
	return box
}

func stripHTML(s string) string {
	return htmlTags.ReplaceAllString(s, "")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

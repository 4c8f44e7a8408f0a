package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/biolens/biolens/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// Format renders a tool result as a table. Result shapes without a table
// rendering fall back to JSON.
func (f *TableFormatter) Format(result any) (string, error) {
	switch v := result.(type) {
	case *core.ObservationPage:
		return f.observations(v), nil
	case *core.SpeciesCountPage:
		return f.speciesCounts(v), nil
	case *core.TaxonPage:
		return f.taxa(v), nil
	case *core.Taxon:
		return f.taxonDetail(v), nil
	case *core.PlacePage:
		return f.places(v.Results, fmt.Sprintf("%d places", v.TotalResults)), nil
	case *core.NearbyPlaces:
		standard := f.places(v.Standard, fmt.Sprintf("%d standard places", len(v.Standard)))
		community := f.places(v.Community, fmt.Sprintf("%d community places", len(v.Community)))
		return standard + "\n" + community, nil
	case *core.ProjectPage:
		return f.projects(v), nil
	case *core.FanOutResult:
		return f.fanOut(v), nil
	default:
		fallback := &JSONFormatter{Indent: true}
		return fallback.Format(result)
	}
}

func (f *TableFormatter) observations(page *core.ObservationPage) string {
	t := newWriter()
	t.AppendHeader(table.Row{"ID", "Species", "Observer", "Date", "Location", "Quality"})
	for _, o := range page.Results {
		t.AppendRow(table.Row{o.ID, speciesLabel(o.CommonName, o.Scientific), o.Observer, o.ObservedOn, o.PlaceGuess, o.QualityGrade})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d total", page.TotalResults), "", "", "", ""})
	return t.Render()
}

func (f *TableFormatter) speciesCounts(page *core.SpeciesCountPage) string {
	t := newWriter()
	t.AppendHeader(table.Row{"#", "Species", "Rank", "Observations"})
	for i, item := range page.Results {
		t.AppendRow(table.Row{i + 1, speciesLabel(item.Taxon.CommonName, item.Taxon.Scientific), item.Taxon.Rank, item.Count})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d species total", page.TotalResults), "", ""})
	return t.Render()
}

func (f *TableFormatter) taxa(page *core.TaxonPage) string {
	t := newWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Rank", "Observations"})
	for _, taxon := range page.Results {
		t.AppendRow(table.Row{taxon.ID, speciesLabel(taxon.CommonName, taxon.Scientific), taxon.Rank, taxon.ObservationsCount})
	}
	return t.Render()
}

func (f *TableFormatter) taxonDetail(taxon *core.Taxon) string {
	t := newWriter()
	t.AppendRow(table.Row{"ID", taxon.ID})
	t.AppendRow(table.Row{"Name", speciesLabel(taxon.CommonName, taxon.Scientific)})
	t.AppendRow(table.Row{"Rank", taxon.Rank})
	if len(taxon.Ancestors) > 0 {
		chain := make([]string, 0, len(taxon.Ancestors))
		for _, a := range taxon.Ancestors {
			chain = append(chain, a.Name)
		}
		t.AppendRow(table.Row{"Taxonomy", strings.Join(chain, " > ")})
	}
	if taxon.ConservationStatus != "" {
		t.AppendRow(table.Row{"Conservation", taxon.ConservationStatus})
	}
	if taxon.WikipediaSummary != "" {
		t.AppendRow(table.Row{"Summary", taxon.WikipediaSummary})
	}
	if taxon.PhotoURL != "" {
		t.AppendRow(table.Row{"Photo", taxon.PhotoURL})
	}
	return t.Render()
}

func (f *TableFormatter) places(places []core.Place, footer string) string {
	t := newWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Type", "Bounds"})
	for _, p := range places {
		t.AppendRow(table.Row{p.ID, p.DisplayName, placeType(p), bounds(p.Bounds)})
	}
	t.AppendFooter(table.Row{"", footer, "", ""})
	return t.Render()
}

func (f *TableFormatter) projects(page *core.ProjectPage) string {
	t := newWriter()
	t.AppendHeader(table.Row{"ID", "Title", "Observations", "Members"})
	for _, p := range page.Results {
		t.AppendRow(table.Row{p.ID, p.Title, p.ObservationsCount, p.MembersCount})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d total", page.TotalResults), "", ""})
	return t.Render()
}

func (f *TableFormatter) fanOut(result *core.FanOutResult) string {
	t := newWriter()
	t.AppendHeader(table.Row{"Source", "Result", "Detail"})
	for _, taxon := range result.Taxa {
		t.AppendRow(table.Row{"taxon", speciesLabel(taxon.CommonName, taxon.Scientific), fmt.Sprintf("ID %d, %s", taxon.ID, taxon.Rank)})
	}
	for _, place := range result.Places {
		t.AppendRow(table.Row{"place", place.DisplayName, fmt.Sprintf("ID %d", place.ID)})
	}
	for _, project := range result.Projects {
		t.AppendRow(table.Row{"project", project.Title, fmt.Sprintf("ID %d", project.ID)})
	}
	for _, user := range result.Users {
		t.AppendRow(table.Row{"user", userLabel(user), fmt.Sprintf("%d observations", user.ObservationsCount)})
	}
	for kind, message := range result.Errors {
		t.AppendRow(table.Row{string(kind), "ERROR", message})
	}
	return t.Render()
}

func newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func speciesLabel(common, scientific string) string {
	if common == "" {
		return scientific
	}
	if scientific == "" {
		return common
	}
	return fmt.Sprintf("%s (%s)", common, scientific)
}

func userLabel(u core.User) string {
	if u.Name != "" {
		return fmt.Sprintf("%s (@%s)", u.Name, u.Login)
	}
	return "@" + u.Login
}

func placeType(p core.Place) string {
	if p.PlaceType == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p.PlaceType)
}

func bounds(b *core.BoundingBox) string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("%.2f,%.2f to %.2f,%.2f", b.SWLat, b.SWLng, b.NELat, b.NELng)
}

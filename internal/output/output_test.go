package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biolens/biolens/internal/core"
)

func TestNewFormatter(t *testing.T) {
	f, err := New("table")
	require.NoError(t, err)
	require.IsType(t, &TableFormatter{}, f)

	f, err = New("json")
	require.NoError(t, err)
	require.IsType(t, &JSONFormatter{}, f)

	_, err = New("csv")
	require.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	page := &core.TaxonPage{
		TotalResults: 1,
		Results: []core.Taxon{
			{ID: 48662, CommonName: "Monarch", Scientific: "Danaus plexippus", Rank: "species"},
		},
	}

	out, err := (&JSONFormatter{Indent: true}).Format(page)
	require.NoError(t, err)

	var decoded core.TaxonPage
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, page.Results[0].Scientific, decoded.Results[0].Scientific)
}

func TestTableFormatterObservations(t *testing.T) {
	page := &core.ObservationPage{
		TotalResults: 1,
		Page:         1,
		Results: []core.Observation{{
			ID:           12345,
			CommonName:   "Monarch",
			Scientific:   "Danaus plexippus",
			Observer:     "beetlefan",
			ObservedOn:   "2024-03-15",
			PlaceGuess:   "Pacific Grove",
			QualityGrade: "research",
		}},
	}

	out, err := (&TableFormatter{}).Format(page)
	require.NoError(t, err)
	require.Contains(t, out, "Monarch (Danaus plexippus)")
	require.Contains(t, out, "beetlefan")
	require.Contains(t, out, "1 total")
}

func TestTableFormatterTaxonDetail(t *testing.T) {
	taxon := &core.Taxon{
		ID:         48662,
		CommonName: "Monarch",
		Scientific: "Danaus plexippus",
		Rank:       "species",
		Ancestors: []core.Ancestor{
			{ID: 1, Name: "Animalia", Rank: "kingdom"},
			{ID: 47158, Name: "Insects", Rank: "class"},
		},
		ConservationStatus: "declining",
	}

	out, err := (&TableFormatter{}).Format(taxon)
	require.NoError(t, err)
	require.Contains(t, out, "Animalia > Insects")
	require.Contains(t, out, "declining")
}

func TestTableFormatterFanOutErrors(t *testing.T) {
	result := &core.FanOutResult{
		Query: "monarch",
		Taxa:  []core.Taxon{{ID: 48662, Scientific: "Danaus plexippus"}},
		Errors: map[core.SourceKind]string{
			core.SourceUsers: "UPSTREAM_ERROR: upstream server error (status 502)",
		},
	}

	out, err := (&TableFormatter{}).Format(result)
	require.NoError(t, err)
	require.Contains(t, out, "Danaus plexippus")
	require.Contains(t, out, "ERROR")
	require.Contains(t, out, "users")
}

func TestTableFormatterUnknownShapeFallsBack(t *testing.T) {
	out, err := (&TableFormatter{}).Format(map[string]string{"hello": "world"})
	require.NoError(t, err)
	require.Contains(t, out, `"hello"`)
}

func TestSpeciesLabel(t *testing.T) {
	require.Equal(t, "Monarch (Danaus plexippus)", speciesLabel("Monarch", "Danaus plexippus"))
	require.Equal(t, "Danaus plexippus", speciesLabel("", "Danaus plexippus"))
	require.Equal(t, "Monarch", speciesLabel("Monarch", ""))
}

package core

// SourceKind identifies a record kind returned by the upstream API.
type SourceKind string

const (
	SourceTaxa     SourceKind = "taxa"
	SourcePlaces   SourceKind = "places"
	SourceProjects SourceKind = "projects"
	SourceUsers    SourceKind = "users"
)

// AllSources lists every fan-out source in catalog order.
var AllSources = []SourceKind{SourceTaxa, SourcePlaces, SourceProjects, SourceUsers}

// ValidSource reports whether kind names a known fan-out source.
func ValidSource(kind SourceKind) bool {
	for _, s := range AllSources {
		if s == kind {
			return true
		}
	}
	return false
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BoundingBox captures the southwest and northeast corners of a place.
type BoundingBox struct {
	SWLat float64 `json:"swlat"`
	SWLng float64 `json:"swlng"`
	NELat float64 `json:"nelat"`
	NELng float64 `json:"nelng"`
}

// Observation is the normalized form of an upstream observation record.
type Observation struct {
	ID           int64        `json:"id"`
	CommonName   string       `json:"common_name,omitempty"`
	Scientific   string       `json:"scientific_name,omitempty"`
	Observer     string       `json:"observer,omitempty"`
	ObservedOn   string       `json:"observed_on,omitempty"`
	PlaceGuess   string       `json:"place_guess,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	QualityGrade string       `json:"quality_grade,omitempty"`
	PhotoURL     string       `json:"photo_url,omitempty"`
	URL          string       `json:"url"`
}

// Ancestor is one link of a taxon's ancestry chain.
type Ancestor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Rank string `json:"rank,omitempty"`
}

// Taxon is the normalized form of an upstream taxon record.
type Taxon struct {
	ID                 int64      `json:"id"`
	CommonName         string     `json:"common_name,omitempty"`
	Scientific         string     `json:"scientific_name"`
	Rank               string     `json:"rank,omitempty"`
	ObservationsCount  int64      `json:"observations_count,omitempty"`
	Ancestors          []Ancestor `json:"ancestors,omitempty"`
	ConservationStatus string     `json:"conservation_status,omitempty"`
	WikipediaSummary   string     `json:"wikipedia_summary,omitempty"`
	PhotoURL           string     `json:"photo_url,omitempty"`
}

// SpeciesCount pairs a taxon with its observation count for a query scope.
type SpeciesCount struct {
	Count int64 `json:"count"`
	Taxon Taxon `json:"taxon"`
}

// Place is the normalized form of an upstream place record.
type Place struct {
	ID          int64        `json:"id"`
	DisplayName string       `json:"display_name"`
	PlaceType   *int         `json:"place_type,omitempty"`
	AdminLevel  *int         `json:"admin_level,omitempty"`
	Bounds      *BoundingBox `json:"bounds,omitempty"`
}

// Project is the normalized form of an upstream project record.
type Project struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	PlaceID           int64  `json:"place_id,omitempty"`
	ObservationsCount int64  `json:"observations_count,omitempty"`
	MembersCount      int64  `json:"members_count,omitempty"`
	URL               string `json:"url"`
}

// User is the normalized form of an upstream user record.
type User struct {
	ID                int64  `json:"id"`
	Login             string `json:"login"`
	Name              string `json:"name,omitempty"`
	ObservationsCount int64  `json:"observations_count,omitempty"`
}

// ObservationPage is a page of normalized observations.
type ObservationPage struct {
	TotalResults int64         `json:"total_results"`
	Page         int           `json:"page"`
	Results      []Observation `json:"results"`
}

// SpeciesCountPage is a ranked list of species counts.
type SpeciesCountPage struct {
	TotalResults int64          `json:"total_results"`
	Results      []SpeciesCount `json:"results"`
}

// TaxonPage is a page of normalized taxa.
type TaxonPage struct {
	TotalResults int64   `json:"total_results"`
	Results      []Taxon `json:"results"`
}

// PlacePage is a page of normalized places.
type PlacePage struct {
	TotalResults int64   `json:"total_results"`
	Results      []Place `json:"results"`
}

// NearbyPlaces groups the two place lists the nearby endpoint returns.
type NearbyPlaces struct {
	Standard  []Place `json:"standard"`
	Community []Place `json:"community"`
}

// ProjectPage is a page of normalized projects.
type ProjectPage struct {
	TotalResults int64     `json:"total_results"`
	Results      []Project `json:"results"`
}

// FanOutResult aggregates per-source outcomes of a cross-resource search.
// A source appears either in its typed result list or in Errors, never both.
type FanOutResult struct {
	Query    string                `json:"query"`
	Taxa     []Taxon               `json:"taxa,omitempty"`
	Places   []Place               `json:"places,omitempty"`
	Projects []Project             `json:"projects,omitempty"`
	Users    []User                `json:"users,omitempty"`
	Errors   map[SourceKind]string `json:"errors,omitempty"`
}

package inat

// Raw upstream payload shapes. Only the fields the normalizers read are
// declared; everything else in the verbose upstream records is dropped at
// decode time.

// Photo is an upstream photo reference.
type Photo struct {
	URL       string `json:"url"`
	MediumURL string `json:"medium_url"`
}

// ConservationStatus is an upstream conservation status entry.
type ConservationStatus struct {
	Status     string `json:"status"`
	StatusName string `json:"status_name"`
	Authority  string `json:"authority"`
}

// Taxon is an upstream taxon record.
type Taxon struct {
	ID                  int64               `json:"id"`
	Name                string              `json:"name"`
	PreferredCommonName string              `json:"preferred_common_name"`
	Rank                string              `json:"rank"`
	ObservationsCount   int64               `json:"observations_count"`
	Ancestors           []Taxon             `json:"ancestors"`
	ConservationStatus  *ConservationStatus `json:"conservation_status"`
	WikipediaSummary    string              `json:"wikipedia_summary"`
	DefaultPhoto        *Photo              `json:"default_photo"`
}

// User is an upstream user record.
type User struct {
	ID                int64  `json:"id"`
	Login             string `json:"login"`
	Name              string `json:"name"`
	ObservationsCount int64  `json:"observations_count"`
}

// Geojson is an upstream point geometry: coordinates are [lng, lat].
type Geojson struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Observation is an upstream observation record.
type Observation struct {
	ID                int64   `json:"id"`
	Taxon             *Taxon  `json:"taxon"`
	User              *User   `json:"user"`
	ObservedOn        string  `json:"observed_on"`
	ObservedOnDetails *struct {
		Date string `json:"date"`
	} `json:"observed_on_details"`
	PlaceGuess   string   `json:"place_guess"`
	QualityGrade string   `json:"quality_grade"`
	Geojson      *Geojson `json:"geojson"`
	Photos       []Photo  `json:"photos"`
}

// SpeciesCount is one entry of a species_counts response.
type SpeciesCount struct {
	Count int64  `json:"count"`
	Taxon *Taxon `json:"taxon"`
}

// BoundingBoxGeojson is an upstream place bounding polygon.
type BoundingBoxGeojson struct {
	Coordinates [][][]float64 `json:"coordinates"`
}

// Place is an upstream place record.
type Place struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	DisplayName string              `json:"display_name"`
	PlaceType   *int                `json:"place_type"`
	AdminLevel  *int                `json:"admin_level"`
	BoundingBox *BoundingBoxGeojson `json:"bounding_box_geojson"`
}

// Project is an upstream project record.
type Project struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Slug              string `json:"slug"`
	Description       string `json:"description"`
	PlaceID           int64  `json:"place_id"`
	ObservationsCount int64  `json:"observations_count"`
	MembersCount      int64  `json:"members_count"`
}

// Response envelopes. Upstream wraps every list in {total_results, results}.

// ObservationsResponse is the /observations envelope.
type ObservationsResponse struct {
	TotalResults int64         `json:"total_results"`
	Results      []Observation `json:"results"`
}

// SpeciesCountsResponse is the /observations/species_counts envelope.
type SpeciesCountsResponse struct {
	TotalResults int64          `json:"total_results"`
	Results      []SpeciesCount `json:"results"`
}

// TaxaResponse is the /taxa and /taxa/autocomplete envelope.
type TaxaResponse struct {
	TotalResults int64   `json:"total_results"`
	Results      []Taxon `json:"results"`
}

// PlacesResponse is the /places/autocomplete envelope.
type PlacesResponse struct {
	TotalResults int64   `json:"total_results"`
	Results      []Place `json:"results"`
}

// NearbyPlacesResponse is the /places/nearby envelope. Unlike the other
// list endpoints its results field is an object of two lists.
type NearbyPlacesResponse struct {
	TotalResults int64 `json:"total_results"`
	Results      struct {
		Standard  []Place `json:"standard"`
		Community []Place `json:"community"`
	} `json:"results"`
}

// ProjectsResponse is the /projects envelope.
type ProjectsResponse struct {
	TotalResults int64     `json:"total_results"`
	Results      []Project `json:"results"`
}

// UsersResponse is the /users/autocomplete envelope.
type UsersResponse struct {
	TotalResults int64  `json:"total_results"`
	Results      []User `json:"results"`
}

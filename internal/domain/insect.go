package domain

// ObservationQuery holds the parameters of a taxon search request.
// Defaults are applied by the handlers before the query reaches a service.
type ObservationQuery struct {
	Query   string
	Locale  string
	PerPage int
	Page    int
}

// NearbyQuery holds the parameters of a location-based observation search
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  int
	Locale    string
	PerPage   int
	Page      int
}

// Taxon is the trimmed pass-through of an iNaturalist taxon record.
// Nested photo/status objects are kept as raw maps so upstream additions
// survive the round trip.
type Taxon struct {
	ID                  int                      `json:"id"`
	Name                string                   `json:"name"`
	PreferredCommonName string                   `json:"preferred_common_name,omitempty"`
	MatchedTerm         string                   `json:"matched_term,omitempty"`
	IconicTaxonName     string                   `json:"iconic_taxon_name,omitempty"`
	Rank                string                   `json:"rank,omitempty"`
	RankLevel           float64                  `json:"rank_level,omitempty"`
	AncestorIDs         []int                    `json:"ancestor_ids,omitempty"`
	DefaultPhoto        map[string]interface{}   `json:"default_photo,omitempty"`
	TaxonPhotos         []map[string]interface{} `json:"taxon_photos,omitempty"`
	ConservationStatus  map[string]interface{}   `json:"conservation_status,omitempty"`
	WikipediaURL        string                   `json:"wikipedia_url,omitempty"`
	WikipediaSummary    string                   `json:"wikipedia_summary,omitempty"`
	ObservationsCount   int                      `json:"observations_count,omitempty"`
	Native              *bool                    `json:"native,omitempty"`
	Introduced          *bool                    `json:"introduced,omitempty"`
	Threatened          *bool                    `json:"threatened,omitempty"`
	Endemic             *bool                    `json:"endemic,omitempty"`
	Extinct             *bool                    `json:"extinct,omitempty"`
}

// TaxonSearchResult is a page of taxon search results
type TaxonSearchResult struct {
	TotalResults int     `json:"total_results"`
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	Results      []Taxon `json:"results"`
}

// NearbySearchResult is a page of taxa observed near a location
type NearbySearchResult struct {
	TotalResults int     `json:"total_results"`
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	Results      []Taxon `json:"results"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusKm     int     `json:"radius"`
}

// Favorite links a user to an insect taxon
type Favorite struct {
	UserID    string `json:"user_id"`
	TaxonID   int    `json:"taxon_id"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CacheStats describes the in-memory response cache
type CacheStats struct {
	TotalItems int `json:"total_items"`
	TTLSeconds int `json:"ttl_seconds"`
}

package models

// Content is one record of the read-only title catalog. All descriptive
// fields are kept as strings; the catalog import takes them verbatim from
// the source file.
type Content struct {
	ContentID   int64  `json:"content_id"`
	Title       string `json:"title"`
	Genre       string `json:"genre,omitempty"`
	Platform    string `json:"platform,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
	Synopsis    string `json:"synopsis,omitempty"`
	Rating      string `json:"rating,omitempty"`
	Runtime     string `json:"runtime,omitempty"`
	Country     string `json:"country,omitempty"`
	Year        string `json:"year,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
}

package types

import "encoding/json"

// SearchResponse represents a search response
type SearchResponse struct {
	Query    string          `json:"query"`
	Results  []*SearchResult `json:"results"`
	Took     int64           `json:"took"` // milliseconds
	Provider ProviderID      `json:"provider"`
	// Raw is the provider body as received, relayed to API callers untouched
	Raw json.RawMessage `json:"-"`
}

// SearchResult represents a single search result
type SearchResult struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Content     string  `json:"content"`
	Score       float32 `json:"score,omitempty"`
	PublishedAt string  `json:"published_at,omitempty"`
}

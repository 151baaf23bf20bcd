package types

// SearchRequest represents a search request
type SearchRequest struct {
	Query string `json:"query"`
	// Filters are merged over the provider defaults; a caller key replaces the default
	Filters map[string]interface{} `json:"filters,omitempty"`
}

// ExcludeDomains returns a filter set that keeps results off the given hosts
func ExcludeDomains(hosts ...string) map[string]interface{} {
	return map[string]interface{}{"exclude_domains": hosts}
}

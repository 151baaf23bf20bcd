package types

import "time"

type ProviderID string

const (
	ProviderTavily ProviderID = "tavily"
)

// DefaultTavilyHost is the public Tavily API
const DefaultTavilyHost = "https://api.tavily.com"

// Tavily request defaults for regulatory document search
var (
	DefaultIncludeDomains = []string{"gostinfo.ru", "protect.gost.ru", "files.stroyinf.ru"}
	DefaultMaxResults     = 10
)

// ProviderConfig represents search provider configuration
type ProviderConfig struct {
	ID   ProviderID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`

	// API settings
	APIHost string `json:"api_host" yaml:"api_host"`
	// APIKey may hold several comma separated keys used in rotation
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Request defaults
	MaxResults     int      `json:"max_results,omitempty" yaml:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty" yaml:"include_domains,omitempty"`

	// Optional settings
	Timeout    time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxRetries int           `json:"max_retries,omitempty" yaml:"max_retries,omitempty"` // default: 1
}

// Validate validates the provider configuration.
// A missing API key is not a configuration error here; Search reports it per call.
func (c *ProviderConfig) Validate() error {
	if c.ID == "" {
		return ErrInvalidProviderID
	}
	if c.Name == "" {
		return ErrInvalidProviderName
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}
	return nil
}

package gigachat

import (
	"fmt"
	"time"
)

// Defaults used when the corresponding Config field is zero
const (
	DefaultOAuthURL    = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	DefaultBaseURL     = "https://gigachat.devices.sberbank.ru/api/v1"
	DefaultScope       = "GIGACHAT_API_PERS"
	DefaultModel       = "GigaChat:latest"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000

	// TokenCacheKey is the single cache slot holding the live access token
	TokenCacheKey = "gigachat_access_token"
	// DefaultTokenTTL stays below the provider's 30 minute token lifetime
	DefaultTokenTTL = 29 * time.Minute

	defaultTimeout = 10 * time.Second
)

// Config holds GigaChat endpoints and credentials
type Config struct {
	AuthKey     string
	Scope       string
	OAuthURL    string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	TokenTTL    time.Duration
	// Timeout bounds token and model-list requests and the wait for completion headers
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.OAuthURL == "" {
		c.OAuthURL = DefaultOAuthURL
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = DefaultTokenTTL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// String hides the auth key from logs
func (c Config) String() string {
	return fmt.Sprintf("gigachat.Config{OAuthURL:%s BaseURL:%s Model:%s}", c.OAuthURL, c.BaseURL, c.Model)
}

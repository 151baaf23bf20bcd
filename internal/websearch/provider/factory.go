package provider

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lk2023060901/gost-search/internal/websearch/types"
)

// Builder constructs a provider from a validated configuration
type Builder func(*types.ProviderConfig) (Provider, error)

type registration struct {
	name  string
	host  string
	build Builder
}

// Factory builds search providers by ID. The registered name and host fill
// whatever the configuration leaves empty.
type Factory struct {
	mu        sync.RWMutex
	providers map[types.ProviderID]registration
}

// NewFactory returns a factory with the built-in providers
func NewFactory() *Factory {
	f := &Factory{
		providers: make(map[types.ProviderID]registration),
	}
	f.Register(types.ProviderTavily, "Tavily", types.DefaultTavilyHost, NewTavilyProvider)
	return f
}

// Register adds or replaces a provider
func (f *Factory) Register(id types.ProviderID, name, host string, build Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providers[id] = registration{name: name, host: host, build: build}
}

// Create builds the provider named by config.ID; config itself is not modified
func (f *Factory) Create(config *types.ProviderConfig) (Provider, error) {
	f.mu.RLock()
	reg, ok := f.providers[config.ID]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrProviderNotFound, config.ID)
	}

	cfg := *config
	if cfg.Name == "" {
		cfg.Name = reg.name
	}
	if cfg.APIHost == "" {
		cfg.APIHost = reg.host
	}
	cfg.APIHost = strings.TrimRight(cfg.APIHost, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return reg.build(&cfg)
}

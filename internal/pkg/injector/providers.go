package injector

import (
	"go.uber.org/zap"

	analysisbiz "github.com/lk2023060901/gost-search/internal/analysis/biz"
	analysistypes "github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/conf"
	"github.com/lk2023060901/gost-search/internal/document/loader"
	"github.com/lk2023060901/gost-search/internal/gigachat"
	"github.com/lk2023060901/gost-search/internal/pkg/cache"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	pkgredis "github.com/lk2023060901/gost-search/internal/pkg/redis"
	"github.com/lk2023060901/gost-search/internal/websearch/provider"
	wstypes "github.com/lk2023060901/gost-search/internal/websearch/types"
)

// Store drivers
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// provideTokenStore picks the token cache. An unreachable Redis degrades to
// no cache, so every analysis acquires a fresh token.
func provideTokenStore(config *conf.Config, log *logger.Logger) (cache.Store, func()) {
	switch config.Redis.Driver {
	case DriverNone:
		log.Warn("token cache disabled")
		return nil, func() {}
	case DriverMemory:
		return cache.NewMemory(), func() {}
	}

	client, err := pkgredis.New(config.Redis.ClientConfig(), log)
	if err != nil {
		log.Warn("redis unavailable, token cache disabled", zap.Error(err))
		return nil, func() {}
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close redis", zap.Error(err))
		}
	}
	return cache.NewRedis(client), cleanup
}

func provideGigaChatConfig(config *conf.Config) gigachat.Config {
	c := config.GigaChat
	return gigachat.Config{
		AuthKey:     c.AuthKey,
		Scope:       c.Scope,
		OAuthURL:    c.OAuthURL,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		TokenTTL:    c.TokenTTL,
		Timeout:     c.Timeout,
	}
}

func provideURLLoader(config *conf.Config, log *logger.Logger) *loader.URLLoader {
	return loader.NewURLLoader(config.GigaChat.FetchTimeout, log)
}

func provideSearchProvider(config *conf.Config) (provider.Provider, error) {
	t := config.Tavily
	return provider.NewFactory().Create(&wstypes.ProviderConfig{
		ID:             wstypes.ProviderTavily,
		APIHost:        t.BaseURL,
		APIKey:         t.APIKey,
		MaxResults:     t.MaxResults,
		IncludeDomains: t.IncludeDomains,
		Timeout:        t.Timeout,
	})
}

func provideVocabulary(config *conf.Config) (analysistypes.Vocabulary, error) {
	return analysistypes.ParseVocabulary(config.GigaChat.StatusVocabulary)
}

func provideTokenBudget(config *conf.Config, log *logger.Logger) *analysisbiz.TokenBudget {
	return analysisbiz.NewTokenBudget(config.GigaChat.MaxContextTokens, analysisbiz.DefaultEncoding, log)
}

//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"

	analysisbiz "github.com/lk2023060901/gost-search/internal/analysis/biz"
	analysisservice "github.com/lk2023060901/gost-search/internal/analysis/service"
	"github.com/lk2023060901/gost-search/internal/conf"
	documentbiz "github.com/lk2023060901/gost-search/internal/document/biz"
	"github.com/lk2023060901/gost-search/internal/document/loader"
	"github.com/lk2023060901/gost-search/internal/gigachat"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	"github.com/lk2023060901/gost-search/internal/server"
	wsbiz "github.com/lk2023060901/gost-search/internal/websearch/biz"
	wsservice "github.com/lk2023060901/gost-search/internal/websearch/service"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	// Data layer
	dataProviderSet,

	// Use cases
	useCaseProviderSet,

	// HTTP services
	httpServiceProviderSet,

	// Servers
	serverProviderSet,
)

// Data layer providers
var dataProviderSet = wire.NewSet(
	provideTokenStore,
	provideGigaChatConfig,
	provideURLLoader,
	provideSearchProvider,
)

// Use case providers
var useCaseProviderSet = wire.NewSet(
	gigachat.NewTokenSource,
	wire.Bind(new(gigachat.TokenProvider), new(*gigachat.TokenSource)),
	gigachat.NewClient,
	wire.Bind(new(analysisbiz.Completer), new(*gigachat.Client)),
	wire.Bind(new(analysisservice.ModelLister), new(*gigachat.Client)),

	wsbiz.NewSearchUseCase,
	wire.Bind(new(documentbiz.Searcher), new(*wsbiz.SearchUseCase)),
	wire.Bind(new(documentbiz.PageLoader), new(*loader.URLLoader)),
	documentbiz.NewResolver,
	wire.Bind(new(analysisbiz.DocumentResolver), new(*documentbiz.Resolver)),

	provideVocabulary,
	provideTokenBudget,
	analysisbiz.NewOrchestrator,
	wire.Bind(new(analysisservice.Analyzer), new(*analysisbiz.Orchestrator)),
)

// HTTP service providers
var httpServiceProviderSet = wire.NewSet(
	analysisservice.NewAnalysisService,
	wsservice.NewSearchService,
)

// Server providers
var serverProviderSet = wire.NewSet(
	server.NewHTTPServer,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}

package injector

import (
	"github.com/lk2023060901/gost-search/internal/conf"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	"github.com/lk2023060901/gost-search/internal/server"
)

// App encapsulates all application dependencies
type App struct {
	Config     *conf.Config
	Logger     *logger.Logger
	HTTPServer *server.HTTPServer
}

func newApp(config *conf.Config, log *logger.Logger, httpServer *server.HTTPServer) *App {
	return &App{
		Config:     config,
		Logger:     log,
		HTTPServer: httpServer,
	}
}

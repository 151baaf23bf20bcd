package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/gost-search/internal/conf"
	"github.com/lk2023060901/gost-search/internal/edge"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

var (
	configFile = flag.String("config", "", "config file path")
)

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(config.Log.LoggerConfig())
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	proxy := edge.NewServer(edge.Config{
		BackendURL: config.Edge.BackendURL,
		Timeout:    config.Edge.Timeout,
	}, log)

	srv := &http.Server{
		Addr:              config.Edge.Addr(),
		Handler:           proxy.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting edge server",
			zap.String("addr", srv.Addr),
			zap.String("backend", config.Edge.BackendURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start edge server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down edge server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("edge server forced to shutdown", zap.Error(err))
	}
}

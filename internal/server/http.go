package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	analysisservice "github.com/lk2023060901/gost-search/internal/analysis/service"
	"github.com/lk2023060901/gost-search/internal/conf"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	wsservice "github.com/lk2023060901/gost-search/internal/websearch/service"
)

// HTTPServer is the backend API
type HTTPServer struct {
	server   *http.Server
	logger   *logger.Logger
	analysis *analysisservice.AnalysisService
	search   *wsservice.SearchService
}

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	analysis *analysisservice.AnalysisService,
	search *wsservice.SearchService,
) *HTTPServer {
	s := &HTTPServer{
		logger:   log,
		analysis: analysis,
		search:   search,
	}
	s.server = &http.Server{
		Addr:              config.Server.Addr(),
		Handler:           s.router(config.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) router(cfg conf.ServerConfig) *gin.Engine {
	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	router := gin.New()
	router.Use(logger.GinRecovery(s.logger))
	router.Use(logger.GinLogger(s.logger))
	router.Use(CORS(cfg.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/api", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "GOST search backend API",
			"endpoints": gin.H{
				"health": "GET /health",
				"gigachat": gin.H{
					"models":     "GET /gigachat/models",
					"completion": "POST /gigachat/completion",
				},
				"tavily": gin.H{
					"search": "POST /tavily/search",
				},
			},
		})
	})

	s.analysis.RegisterRoutes(router)
	s.search.RegisterRoutes(router)

	return router
}

// Start blocks until the server stops
func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains in-flight requests until ctx expires
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// CORS 跨域中间件，仅回显允许的来源
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		_, ok := allowed[origin]

		if origin != "" && (ok || wildcard) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+logger.RequestIDHeader)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

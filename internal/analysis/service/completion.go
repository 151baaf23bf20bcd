package service

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/gigachat"
	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	"github.com/lk2023060901/gost-search/internal/pkg/response"
	"github.com/lk2023060901/gost-search/internal/pkg/sse"
)

const errorPrefix = "GigaChat API error"

// Analyzer opens an analysis stream for a request
type Analyzer interface {
	StreamAnalysis(ctx context.Context, req *types.AnalysisRequest) (io.ReadCloser, error)
}

// ModelLister lists the completion provider's models
type ModelLister interface {
	Models(ctx context.Context) (*gigachat.ModelList, error)
}

// AnalysisService GigaChat 分析 HTTP 服务
type AnalysisService struct {
	analyzer Analyzer
	models   ModelLister
	logger   *logger.Logger
}

// NewAnalysisService 创建分析服务
func NewAnalysisService(analyzer Analyzer, models ModelLister, logger *logger.Logger) *AnalysisService {
	return &AnalysisService{
		analyzer: analyzer,
		models:   models,
		logger:   logger,
	}
}

// Completion streams the analysis of one document as SSE.
// Errors before the first byte are JSON replies; once headers are sent a
// failing stream is closed with the terminal frame.
func (s *AnalysisService) Completion(c *gin.Context) {
	var req types.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Message and URL are required")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, apperrors.GetDetails(err))
		return
	}

	ctx := c.Request.Context()
	log := s.logger.WithContext(ctx)

	stream, err := s.analyzer.StreamAnalysis(ctx, &req)
	if err != nil {
		log.Error("gigachat completion route error", zap.String("url", req.URL), zap.Error(err))
		response.HandleError(c, err, errorPrefix)
		return
	}
	defer stream.Close()

	sse.SetHeaders(c.Writer.Header(), "")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	n, err := sse.Pipe(ctx, c.Writer, stream, 0)
	switch {
	case err == nil:
		log.Debug("analysis stream finished", zap.Int64("bytes", n))
	case errors.Is(err, sse.ErrClientGone):
		log.Info("client disconnected during analysis stream", zap.Int64("bytes", n), zap.Error(err))
	default:
		streamErr := apperrors.NewStreamError(n, err)
		_ = c.Error(streamErr)
		log.Error("stream error", zap.Error(streamErr))
		if werr := sse.WriteDone(c.Writer); werr != nil {
			log.Warn("failed to write terminal frame", zap.Error(werr))
		}
	}
}

// Models relays the provider's model list
func (s *AnalysisService) Models(c *gin.Context) {
	list, err := s.models.Models(c.Request.Context())
	if err != nil {
		s.logger.WithContext(c.Request.Context()).Error("gigachat models error", zap.Error(err))
		_ = c.Error(err)
		response.InternalError(c, errorPrefix)
		return
	}
	if len(list.Raw) > 0 {
		response.Raw(c, http.StatusOK, list.Raw)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RegisterRoutes 注册路由
func (s *AnalysisService) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/gigachat")
	{
		g.GET("/models", s.Models)
		g.POST("/completion", s.Completion)
	}
}

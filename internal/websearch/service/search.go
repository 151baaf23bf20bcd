package service

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	"github.com/lk2023060901/gost-search/internal/pkg/response"
	"github.com/lk2023060901/gost-search/internal/websearch/biz"
)

// SearchRequest is the body of POST /tavily/search
type SearchRequest struct {
	Query   string                 `json:"query"`
	Filters map[string]interface{} `json:"filters"`
}

// SearchService exposes document search over HTTP
type SearchService struct {
	uc     *biz.SearchUseCase
	logger *logger.Logger
}

// NewSearchService 创建搜索服务
func NewSearchService(uc *biz.SearchUseCase, logger *logger.Logger) *SearchService {
	return &SearchService{
		uc:     uc,
		logger: logger,
	}
}

// Search relays the provider's JSON body to the caller
func (s *SearchService) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Query is required")
		return
	}

	resp, err := s.uc.Search(c.Request.Context(), req.Query, req.Filters)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidParams) {
			response.BadRequest(c, apperrors.GetDetails(err))
			return
		}
		s.logger.WithContext(c.Request.Context()).Error("tavily search error", zap.Error(err))
		_ = c.Error(err)
		response.InternalError(c, "Tavily API error")
		return
	}

	if len(resp.Raw) > 0 {
		response.Raw(c, http.StatusOK, resp.Raw)
		return
	}
	body, _ := json.Marshal(resp)
	response.Raw(c, http.StatusOK, body)
}

// RegisterRoutes 注册路由
func (s *SearchService) RegisterRoutes(r gin.IRouter) {
	r.Group("/tavily").POST("/search", s.Search)
}

package biz

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	"github.com/lk2023060901/gost-search/internal/websearch/provider"
	"github.com/lk2023060901/gost-search/internal/websearch/types"
)

// SearchUseCase runs document searches against the configured provider
type SearchUseCase struct {
	provider provider.Provider
	logger   *logger.Logger
}

// NewSearchUseCase creates a new search use case
func NewSearchUseCase(p provider.Provider, log *logger.Logger) *SearchUseCase {
	return &SearchUseCase{
		provider: p,
		logger:   log,
	}
}

// Search queries the provider; filters are merged over the provider defaults
func (uc *SearchUseCase) Search(ctx context.Context, query string, filters map[string]interface{}) (*types.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewValidationError("Query is required")
	}

	resp, err := uc.provider.Search(ctx, &types.SearchRequest{Query: query, Filters: filters})
	if err != nil {
		uc.logger.Error("search provider failed",
			zap.String("provider", string(uc.provider.GetID())),
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, toAppError(err)
	}

	uc.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("results", len(resp.Results)),
		zap.Int64("took_ms", resp.Took),
	)
	return resp, nil
}

func toAppError(err error) error {
	if errors.Is(err, types.ErrMissingAPIKey) {
		return apperrors.NewConfigError("TAVILY_API_KEY")
	}
	if errors.Is(err, types.ErrEmptyQuery) {
		return apperrors.NewValidationError("Query is required")
	}
	return apperrors.Wrap(err, apperrors.ErrSearch)
}

package types

import (
	"strings"

	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
)

// AnalysisRequest is the body of POST /gigachat/completion
type AnalysisRequest struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	// Query is the original search query, preferred over Title when searching alternatives
	Query string `json:"query,omitempty"`
}

// Validate requires a message and a URL
func (r *AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" || strings.TrimSpace(r.URL) == "" {
		return apperrors.NewValidationError("Message and URL are required")
	}
	return nil
}

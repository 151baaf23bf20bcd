package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lk2023060901/gost-search/internal/websearch/types"
)

// TavilyProvider implements the Tavily search API
type TavilyProvider struct {
	*BaseProvider
}

// NewTavilyProvider creates a new Tavily provider
func NewTavilyProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &TavilyProvider{BaseProvider: base}, nil
}

// tavilyResponse represents a Tavily API response
type tavilyResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float32 `json:"score"`
		PublishedDate string  `json:"published_date,omitempty"`
	} `json:"results"`
	Query string `json:"query"`
}

// EnhanceQuery narrows a free-text query to regulatory document types
func EnhanceQuery(query string) string {
	return query + " (ГОСТ OR ОСТ OR РД OR СП) -СНиП"
}

// buildBody merges caller filters over the defaults, caller keys winning
func (p *TavilyProvider) buildBody(req *types.SearchRequest) map[string]interface{} {
	maxResults := p.config.MaxResults
	if maxResults == 0 {
		maxResults = types.DefaultMaxResults
	}
	includeDomains := p.config.IncludeDomains
	if includeDomains == nil {
		includeDomains = types.DefaultIncludeDomains
	}

	body := map[string]interface{}{
		"query":           EnhanceQuery(req.Query),
		"max_results":     maxResults,
		"include_domains": includeDomains,
	}
	for k, v := range req.Filters {
		body[k] = v
	}
	return body
}

// Search executes a search query using the Tavily API
func (p *TavilyProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	startTime := time.Now()

	if req.Query == "" {
		return nil, types.ErrEmptyQuery
	}
	if !p.HasAPIKey() {
		return nil, types.ErrMissingAPIKey
	}

	reqBody, err := json.Marshal(p.buildBody(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Build HTTP request
	apiURL := fmt.Sprintf("%s/search", p.config.APIHost)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.GetAPIKey()))

	// Execute request
	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "READ_FAILED",
			Status:   resp.StatusCode,
			Message:  "Failed to read response",
			Err:      err,
		}
	}

	// Check status code
	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Status:   resp.StatusCode,
			Message:  string(raw),
		}
	}

	// Parse response
	var tavilyResp tavilyResponse
	if err := json.Unmarshal(raw, &tavilyResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Convert to standard response
	results := make([]*types.SearchResult, len(tavilyResp.Results))
	for i, r := range tavilyResp.Results {
		results[i] = &types.SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Content:     r.Content,
			Score:       r.Score,
			PublishedAt: r.PublishedDate,
		}
	}

	return &types.SearchResponse{
		Query:    req.Query,
		Results:  results,
		Took:     time.Since(startTime).Milliseconds(),
		Provider: p.GetID(),
		Raw:      raw,
	}, nil
}

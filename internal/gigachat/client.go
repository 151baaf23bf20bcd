package gigachat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/httpclient"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

const unexpectedErrorMessage = "An unexpected error occurred on the server."

// ModelList is the provider's GET /models reply. Raw is the body as
// received and is what API callers get.
type ModelList struct {
	Object string          `json:"object"`
	Data   []openai.Model  `json:"data"`
	Raw    json.RawMessage `json:"-"`
}

// ChatRequest is the body of a streaming chat completion
type ChatRequest struct {
	Model       string                         `json:"model"`
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	Temperature float32                        `json:"temperature"`
	MaxTokens   int                            `json:"max_tokens"`
	Stream      bool                           `json:"stream"`
}

// Client talks to the GigaChat REST API
type Client struct {
	cfg    Config
	tokens TokenProvider
	// api serves requests that complete within cfg.Timeout
	api *http.Client
	// stream has no overall deadline so long completions are not cut off
	stream *http.Client
	logger *logger.Logger
}

// NewClient creates a GigaChat client authenticating through tokens
func NewClient(cfg Config, tokens TokenProvider, log *logger.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		api: httpclient.New(httpclient.Options{
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: true,
		}),
		stream: httpclient.New(httpclient.Options{
			ResponseHeaderTimeout: cfg.Timeout,
			InsecureSkipVerify:    true,
		}),
		logger: log,
	}
}

// NewChatRequest fills model settings from the client configuration
func (c *Client) NewChatRequest(messages ...openai.ChatCompletionMessage) *ChatRequest {
	return &ChatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Stream:      true,
	}
}

// Models lists the models available to the configured credentials
func (c *Client) Models(ctx context.Context) (*ModelList, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, 0, err.Error(), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.api.Do(req)
	if err != nil {
		c.logger.Error("gigachat models request failed", zap.Error(err))
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, 0, unexpectedErrorMessage, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, resp.StatusCode, unexpectedErrorMessage, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("gigachat models rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, resp.StatusCode,
			upstreamMessage(raw, unexpectedErrorMessage), fmt.Errorf("HTTP error: %s", resp.Status))
	}

	list := &ModelList{Raw: raw}
	if err := json.Unmarshal(raw, list); err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, resp.StatusCode, "model list is not JSON", err)
	}
	return list, nil
}

// StreamCompletion opens a streaming chat completion and returns the raw SSE
// body. The caller owns the returned reader. Failures before the body opens
// are returned as completion errors carrying the upstream status; token
// errors are returned unchanged.
func (c *Client) StreamCompletion(ctx context.Context, chat *ChatRequest) (io.ReadCloser, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(chat)
	if err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, 0, err.Error(), err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, 0, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.stream.Do(req)
	if err != nil {
		c.logger.Error("gigachat completion request failed", zap.Error(err))
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, 0, unexpectedErrorMessage, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		c.logger.Error("gigachat completion rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, apperrors.NewUpstreamError(apperrors.ErrCompletion, resp.StatusCode,
			upstreamMessage(body, unexpectedErrorMessage), fmt.Errorf("HTTP error: %s", resp.Status))
	}

	return resp.Body, nil
}

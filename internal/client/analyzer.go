package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	analysistypes "github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/pkg/httpclient"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	wstypes "github.com/lk2023060901/gost-search/internal/websearch/types"
)

const (
	// DefaultTimeout bounds one analysis from request start to terminal state
	DefaultTimeout = 15 * time.Second
	// DefaultInstruction is sent when the caller gives no message
	DefaultInstruction = "Проанализируй следующий нормативный документ и сделай краткую выжимку основных требований и положений."

	defaultErrorMessage = "Не удалось получить анализ от GigaChat"
	readBufferSize      = 4 * 1024
)

// Analyzer drives analyses and searches against the edge proxy.
// It holds one session and is not safe for concurrent use.
type Analyzer struct {
	edgeURL string
	timeout time.Duration
	client  *http.Client
	session *Session
	logger  *logger.Logger
}

// NewAnalyzer creates an analyzer for the edge at edgeURL
func NewAnalyzer(edgeURL string, timeout time.Duration, vocab analysistypes.Vocabulary, log *logger.Logger) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Analyzer{
		edgeURL: strings.TrimRight(edgeURL, "/"),
		timeout: timeout,
		client:  httpclient.New(httpclient.Options{}),
		session: NewSession(vocab, nil, log),
		logger:  log,
	}
}

// Analyze streams the analysis of result and returns the terminal view.
// Every call starts from a clean state; observe sees each transition.
func (a *Analyzer) Analyze(ctx context.Context, result *wstypes.SearchResult, query, message string, observe Observer) View {
	a.session.observe = observe
	a.session.Start()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if strings.TrimSpace(message) == "" {
		message = DefaultInstruction
	}
	body, err := json.Marshal(analysistypes.AnalysisRequest{
		Message: message,
		URL:     result.URL,
		Title:   result.Title,
		Query:   query,
	})
	if err != nil {
		a.session.Fail(err.Error())
		return a.session.View()
	}

	resp, err := a.post(ctx, "/api/gigachat", body)
	if err != nil {
		a.abort(ctx, err)
		return a.session.View()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			a.abort(ctx, readErr)
			return a.session.View()
		}
		a.session.Fail(errorMessage(raw))
		return a.session.View()
	}

	a.consume(ctx, resp.Body)
	return a.session.View()
}

func (a *Analyzer) consume(ctx context.Context, body io.Reader) {
	buf := make([]byte, readBufferSize)
	for {
		n, err := body.Read(buf)
		if n > 0 && a.session.Feed(buf[:n]) {
			return
		}
		if errors.Is(err, io.EOF) {
			a.session.End()
			return
		}
		if err != nil {
			a.abort(ctx, err)
			return
		}
	}
}

// abort maps a transport failure onto the error state
func (a *Analyzer) abort(ctx context.Context, err error) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		a.logger.Warn("analysis timed out", zap.Duration("timeout", a.timeout))
		a.session.TimedOut(a.timeout)
		return
	}
	a.logger.Error("analysis request failed", zap.Error(err))
	a.session.Fail(err.Error())
}

// Search queries the edge search route and returns the parsed results
func (a *Analyzer) Search(ctx context.Context, query string) ([]*wstypes.SearchResult, error) {
	body, err := json.Marshal(wstypes.SearchRequest{Query: query})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.post(ctx, "/api/search", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search failed: %s", errorMessage(raw))
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("search failed: response is not JSON")
	}

	var results []*wstypes.SearchResult
	gjson.GetBytes(raw, "results").ForEach(func(_, item gjson.Result) bool {
		results = append(results, &wstypes.SearchResult{
			Title:       item.Get("title").String(),
			URL:         item.Get("url").String(),
			Content:     item.Get("content").String(),
			Score:       float32(item.Get("score").Float()),
			PublishedAt: item.Get("published_date").String(),
		})
		return true
	})
	return results, nil
}

func (a *Analyzer) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.edgeURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.client.Do(req)
}

// errorMessage prefers the JSON error field over the raw body text
func errorMessage(raw []byte) string {
	if msg := gjson.GetBytes(raw, "error").String(); gjson.ValidBytes(raw) && msg != "" {
		return msg
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return defaultErrorMessage
}

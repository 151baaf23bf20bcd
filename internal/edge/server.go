// Package edge is the public proxy in front of the analysis backend.
package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	"github.com/lk2023060901/gost-search/internal/pkg/sse"
)

const maxRequestBody = 1 << 20

// Config configures the proxy
type Config struct {
	BackendURL string
	// Timeout bounds backend calls other than the completion stream; zero means 30s
	Timeout time.Duration
}

type Server struct {
	backendURL string
	api        *http.Client
	stream     *http.Client
	logger     *logger.Logger
}

func NewServer(cfg Config, log *logger.Logger) *Server {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		backendURL: strings.TrimRight(cfg.BackendURL, "/"),
		api:        &http.Client{Timeout: timeout},
		stream:     &http.Client{},
		logger:     log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/api/gigachat", s.proxyCompletion)
	r.Post("/api/search", s.proxySearch)
	r.Get("/health", s.health)

	return r
}

// requestLogger logs one zap line per request and carries the request id to the backend
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())
		ctx := logger.WithRequestID(r.Context(), requestID)
		ctx = logger.ToContext(ctx, s.logger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.WithContext(ctx).Info("edge request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSONStatus(w, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// proxyCompletion relays the backend's event stream byte for byte
func (s *Server) proxyCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	body, err := readJSONBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	resp, err := s.forward(ctx, s.stream, "/gigachat/completion", body)
	if err != nil {
		log.Error("error forwarding to backend", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorText, _ := io.ReadAll(io.LimitReader(resp.Body, maxRequestBody))
		log.Error("backend error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", errorText),
		)
		writeError(w, resp.StatusCode, "GigaChat API error on backend")
		return
	}

	sse.SetHeaders(w.Header(), "text/event-stream; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	n, err := sse.Pipe(ctx, w, resp.Body, 0)
	if err == nil || errors.Is(err, sse.ErrClientGone) {
		return
	}
	// abort so the client observes a broken stream rather than a clean end
	log.Error("stream reading error", zap.Int64("bytes", n), zap.Error(err))
	panic(http.ErrAbortHandler)
}

// proxySearch relays status and JSON body of the backend search
func (s *Server) proxySearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	body, err := readJSONBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	resp, err := s.forward(ctx, s.api, "/tavily/search", body)
	if err != nil {
		log.Error("error forwarding search to backend", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10*maxRequestBody))
	if err != nil || !json.Valid(data) {
		log.Error("invalid search response from backend", zap.Int("status", resp.StatusCode), zap.Error(err))
		writeError(w, http.StatusBadGateway, "Invalid response from backend")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(data)
}

func (s *Server) forward(ctx context.Context, client *http.Client, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.backendURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID := middleware.GetReqID(ctx); requestID != "" {
		req.Header.Set(logger.RequestIDHeader, requestID)
	}
	return client.Do(req)
}

// readJSONBody returns the request body after checking it is JSON
func readJSONBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errors.New("request body is not valid JSON")
	}
	return body, nil
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSONStatus(w, map[string]string{"error": message}, statusCode)
}

func writeJSONStatus(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

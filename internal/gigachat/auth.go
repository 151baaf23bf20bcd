package gigachat

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/lk2023060901/gost-search/internal/pkg/cache"
	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/httpclient"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

// TokenProvider returns a bearer token for GigaChat API calls
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenSource obtains OAuth tokens and caches them in store.
// A nil store disables caching; every call then requests a fresh token.
type TokenSource struct {
	cfg    Config
	store  cache.Store
	client *http.Client
	logger *logger.Logger
	rqUID  func() string
}

// NewTokenSource creates a token source backed by store
func NewTokenSource(cfg Config, store cache.Store, log *logger.Logger) *TokenSource {
	cfg = cfg.withDefaults()
	return &TokenSource{
		cfg:   cfg,
		store: store,
		client: httpclient.New(httpclient.Options{
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: true,
		}),
		logger: log,
		rqUID:  func() string { return uuid.New().String() },
	}
}

// Token returns the cached token or requests a new one.
// Concurrent misses may each request a token; the last write wins.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if s.cfg.AuthKey == "" {
		return "", apperrors.NewConfigError("GIGACHAT_AUTH_KEY")
	}

	if s.store != nil {
		token, err := s.store.Get(ctx, TokenCacheKey)
		switch {
		case err == nil && token != "":
			s.logger.Debug("using cached gigachat token")
			return token, nil
		case err != nil && !errors.Is(err, cache.ErrMiss):
			s.logger.Warn("token cache unavailable, requesting a fresh token", zap.Error(err))
		}
	} else {
		s.logger.Warn("token cache disabled, requesting a fresh token")
	}

	token, err := s.requestToken(ctx)
	if err != nil {
		s.logger.Error("failed to get gigachat token", zap.Error(err))
		return "", err
	}

	if s.store != nil {
		if err := s.store.Set(ctx, TokenCacheKey, token, s.cfg.TokenTTL); err != nil {
			s.logger.Warn("failed to cache gigachat token", zap.Error(err))
		}
	}
	s.logger.Info("received new gigachat token")
	return token, nil
}

func (s *TokenSource) requestToken(ctx context.Context) (string, error) {
	form := url.Values{"scope": {s.cfg.Scope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.OAuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.NewUpstreamError(apperrors.ErrTokenAcquisition, 0, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", s.rqUID())
	req.Header.Set("Authorization", "Basic "+s.cfg.AuthKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperrors.NewUpstreamError(apperrors.ErrTokenAcquisition, 0, err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperrors.NewUpstreamError(apperrors.ErrTokenAcquisition, 0, err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.NewUpstreamError(apperrors.ErrTokenAcquisition, resp.StatusCode,
			upstreamMessage(body, resp.Status), nil)
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", apperrors.NewUpstreamError(apperrors.ErrTokenAcquisition, 0,
			"token response has no access_token", nil)
	}
	return token, nil
}

// upstreamMessage extracts the provider's message field, or falls back
func upstreamMessage(body []byte, fallback string) string {
	if msg := gjson.GetBytes(body, "message").String(); msg != "" {
		return msg
	}
	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return msg
	}
	if text := strings.TrimSpace(string(body)); text != "" && !gjson.ValidBytes(body) {
		return text
	}
	return fallback
}

var _ TokenProvider = (*TokenSource)(nil)

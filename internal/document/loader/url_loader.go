package loader

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/httpclient"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

// DefaultTimeout bounds one page download including the body
const DefaultTimeout = 10 * time.Second

// maxBodySize caps the bytes read from a single page
const maxBodySize = 10 << 20

// URLLoader URL 内容加载器
type URLLoader struct {
	client *http.Client
	logger *logger.Logger
}

// NewURLLoader 创建 URL 加载器；证书校验关闭，许多标准文档站点使用自签名证书
func NewURLLoader(timeout time.Duration, log *logger.Logger) *URLLoader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &URLLoader{
		client: httpclient.New(httpclient.Options{
			Timeout:            timeout,
			InsecureSkipVerify: true,
		}),
		logger: log,
	}
}

// Load downloads url and returns its readable text.
// Network errors, timeouts and non-2xx replies are reported as a fetch error;
// an empty page is returned as an empty string.
func (l *URLLoader) Load(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.NewFetchError(url, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("User-Agent", httpclient.BrowserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", apperrors.NewFetchError(url, fmt.Errorf("failed to fetch URL: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.NewFetchError(url, fmt.Errorf("HTTP error: %s", resp.Status))
	}

	contentType := resp.Header.Get("Content-Type")
	kind := classifyContent(contentType)
	if kind == contentOther {
		// binary documents carry no extractable text; the resolver moves on
		l.logger.Debug("skipping non-text page",
			zap.String("url", url),
			zap.String("content_type", contentType),
		)
		return "", nil
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), contentType)
	if err != nil {
		return "", apperrors.NewFetchError(url, fmt.Errorf("failed to decode body: %w", err))
	}

	var text string
	if kind == contentHTML {
		text, err = ExtractText(body)
	} else {
		var raw []byte
		raw, err = io.ReadAll(body)
		text = collapseWhitespace(string(raw))
	}
	if err != nil {
		return "", apperrors.NewFetchError(url, err)
	}

	l.logger.Debug("page loaded",
		zap.String("url", url),
		zap.String("content_type", contentType),
		zap.Int("chars", len([]rune(text))),
	)
	return text, nil
}

type contentKind int

const (
	contentHTML contentKind = iota
	contentText
	contentOther
)

// classifyContent treats a missing or unparsable type as HTML
func classifyContent(contentType string) contentKind {
	if strings.TrimSpace(contentType) == "" {
		return contentHTML
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentHTML
	}
	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return contentHTML
	case strings.HasPrefix(mediaType, "text/"):
		return contentText
	default:
		return contentOther
	}
}

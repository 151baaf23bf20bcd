package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/gigachat"
	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	"github.com/lk2023060901/gost-search/internal/pkg/sse"
)

type fakeAnalyzer struct {
	stream io.ReadCloser
	err    error
	calls  int
	req    *types.AnalysisRequest
}

func (f *fakeAnalyzer) StreamAnalysis(_ context.Context, req *types.AnalysisRequest) (io.ReadCloser, error) {
	f.calls++
	f.req = req
	return f.stream, f.err
}

type fakeModels struct {
	list *gigachat.ModelList
	err  error
}

func (f fakeModels) Models(context.Context) (*gigachat.ModelList, error) { return f.list, f.err }

// brokenStream yields data and then fails
type brokenStream struct {
	data string
	done bool
}

func (b *brokenStream) Read(p []byte) (int, error) {
	if !b.done {
		b.done = true
		return copy(p, b.data), nil
	}
	return 0, errors.New("upstream reset")
}

func (b *brokenStream) Close() error { return nil }

func newRouter(svc *AnalysisService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/gigachat/completion", svc.Completion)
	r.GET("/gigachat/models", svc.Models)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/gigachat/completion", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCompletion_Validation(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	r := newRouter(NewAnalysisService(analyzer, fakeModels{}, logger.NewNop()))

	for _, body := range []string{`{"message":"m"}`, `{"url":"https://a"}`, `{"message":"","url":""}`, `{`} {
		w := post(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Message and URL are required"}`, w.Body.String())
	}
	assert.Equal(t, 0, analyzer.calls)
}

func TestCompletion_StreamsVerbatim(t *testing.T) {
	const stream = "data: {\"choices\":[{\"delta\":{\"content\":\"Статус: Действует\\nТекст\"}}]}\n\ndata: [DONE]\n\n"
	analyzer := &fakeAnalyzer{stream: io.NopCloser(strings.NewReader(stream))}
	r := newRouter(NewAnalysisService(analyzer, fakeModels{}, logger.NewNop()))

	w := post(r, `{"message":"m","url":"https://a.ru/doc","title":"T","query":"q"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", w.Header().Get("Connection"))
	assert.Equal(t, stream, w.Body.String())
	assert.Equal(t, "q", analyzer.req.Query)
	assert.Equal(t, "T", analyzer.req.Title)
}

func TestCompletion_PreStreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "upstream status",
			err:        apperrors.NewUpstreamError(apperrors.ErrCompletion, http.StatusUnauthorized, "Token has expired", nil),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"GigaChat API error: Token has expired"}`,
		},
		{
			name:       "resolution failure",
			err:        apperrors.NewResolutionError("no usable alternative among 0 results", errors.New("404")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"GigaChat API error: no usable alternative among 0 results"}`,
		},
		{
			name:       "missing auth key",
			err:        apperrors.NewConfigError("GIGACHAT_AUTH_KEY"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"GigaChat API error: GIGACHAT_AUTH_KEY is not set"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewAnalysisService(&fakeAnalyzer{err: tt.err}, fakeModels{}, logger.NewNop()))
			w := post(r, `{"message":"m","url":"https://a.ru/doc"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestCompletion_MidStreamErrorEndsWithDone(t *testing.T) {
	const first = "data: {\"choices\":[{\"delta\":{\"content\":\"Статус\"}}]}\n\n"
	analyzer := &fakeAnalyzer{stream: &brokenStream{data: first}}
	svc := NewAnalysisService(analyzer, fakeModels{}, logger.NewNop())

	var recorded []*gin.Error
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		recorded = c.Errors
	})
	r.POST("/gigachat/completion", svc.Completion)

	w := post(r, `{"message":"m","url":"https://a.ru/doc"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, first+"data: [DONE]\n\n", w.Body.String())

	require.Len(t, recorded, 1)
	assert.True(t, apperrors.Is(recorded[0].Err, apperrors.ErrStream))
	var readErr *sse.ReadError
	assert.ErrorAs(t, recorded[0].Err, &readErr)
}

func TestModels(t *testing.T) {
	list := &gigachat.ModelList{Object: "list", Data: []openai.Model{{ID: "GigaChat", Object: "model"}}}
	r := newRouter(NewAnalysisService(&fakeAnalyzer{}, fakeModels{list: list}, logger.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gigachat/models", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"GigaChat"`)
	assert.Contains(t, w.Body.String(), `"object":"list"`)
}

func TestModels_RelaysProviderBody(t *testing.T) {
	const body = `{"object":"list","data":[{"id":"GigaChat","object":"model","owned_by":"salutedevices","type":"chat"}]}`
	list := &gigachat.ModelList{Object: "list", Raw: json.RawMessage(body)}
	r := newRouter(NewAnalysisService(&fakeAnalyzer{}, fakeModels{list: list}, logger.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gigachat/models", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestModels_Error(t *testing.T) {
	r := newRouter(NewAnalysisService(&fakeAnalyzer{}, fakeModels{err: errors.New("boom")}, logger.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gigachat/models", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"GigaChat API error"}`, w.Body.String())
}

package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	"github.com/lk2023060901/gost-search/internal/websearch/biz"
	"github.com/lk2023060901/gost-search/internal/websearch/provider"
	"github.com/lk2023060901/gost-search/internal/websearch/types"
)

func newRouter(t *testing.T, upstream http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	p, err := provider.NewTavilyProvider(&types.ProviderConfig{
		ID:      types.ProviderTavily,
		Name:    "Tavily",
		APIHost: srv.URL,
		APIKey:  "tvly-test",
	})
	require.NoError(t, err)

	svc := NewSearchService(biz.NewSearchUseCase(p, logger.NewNop()), logger.NewNop())
	r := gin.New()
	r.POST("/tavily/search", svc.Search)
	return r
}

func TestSearch_RelaysProviderBody(t *testing.T) {
	const body = `{"query":"q","answer":null,"results":[{"title":"t","url":"https://gostinfo.ru/x","content":"c","score":0.8}],"response_time":0.4}`
	r := newRouter(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tavily/search", strings.NewReader(`{"query":"ГОСТ 2.105"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, body, w.Body.String())
}

func TestSearch_Validation(t *testing.T) {
	r := newRouter(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("provider must not be called")
	})

	for _, payload := range []string{`{}`, `{"query":""}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tavily/search", strings.NewReader(payload))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		assert.JSONEq(t, `{"error":"Query is required"}`, w.Body.String())
	}
}

func TestSearch_ProviderFailure(t *testing.T) {
	r := newRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tavily/search", strings.NewReader(`{"query":"q"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Tavily API error"}`, w.Body.String())
}

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysistypes "github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	wstypes "github.com/lk2023060901/gost-search/internal/websearch/types"
)

var testResult = &wstypes.SearchResult{Title: "ГОСТ Р 7.0.97-2016", URL: "https://docs.example.ru/gost-7-0-97"}

func newTestAnalyzer(url string, timeout time.Duration) *Analyzer {
	return NewAnalyzer(url, timeout, nil, logger.NewNop())
}

func TestAnalyzer_Analyze(t *testing.T) {
	var got analysistypes.AnalysisRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/gigachat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, chunk := range []string{frame(`Статус: Действует\n`), frame("Требования"), "data: [DONE]\n\n"} {
			_, _ = w.Write([]byte(chunk))
			flusher.Flush()
		}
	}))
	defer server.Close()

	var states []State
	view := newTestAnalyzer(server.URL, time.Second).Analyze(context.Background(), testResult, "оформление документов", "", func(v View) {
		states = append(states, v.State)
	})

	assert.Equal(t, StateSuccess, view.State)
	assert.Equal(t, "Действует", view.DocumentStatus)
	assert.Equal(t, analysistypes.StatusActive, view.Classification)
	assert.Equal(t, "Требования", view.Body)
	assert.Equal(t, StateLoading, states[0])
	assert.Equal(t, StateSuccess, states[len(states)-1])

	assert.Equal(t, DefaultInstruction, got.Message)
	assert.Equal(t, testResult.URL, got.URL)
	assert.Equal(t, testResult.Title, got.Title)
	assert.Equal(t, "оформление документов", got.Query)
}

func TestAnalyzer_AnalyzeRejected(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"json error", `{"error":"GigaChat API error on backend"}`, "GigaChat API error on backend"},
		{"plain text", "Bad Gateway", "Bad Gateway"},
		{"empty", "", defaultErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			view := newTestAnalyzer(server.URL, time.Second).Analyze(context.Background(), testResult, "", "Кратко", nil)
			assert.Equal(t, StateError, view.State)
			assert.Equal(t, tt.wantError, view.Error)
		})
	}
}

func TestAnalyzer_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	timeout := 100 * time.Millisecond
	start := time.Now()
	view := newTestAnalyzer(server.URL, timeout).Analyze(context.Background(), testResult, "", "", nil)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, StateError, view.State)
	assert.Equal(t, TimeoutMessage(timeout), view.Error)
	assert.Equal(t, NoDataStatus, view.DocumentStatus)
}

func TestTimeoutMessage(t *testing.T) {
	assert.Equal(t, "Время ожидания ответа от сервера истекло (15 сек). Попробуйте еще раз.", TimeoutMessage(DefaultTimeout))
}

func TestAnalyzer_ResetsBetweenRuns(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`data: {"error":"first failed"}` + "\n\n"))
			return
		}
		_, _ = w.Write([]byte(frame(`Статус: Отменен\nвторой`) + "data: [DONE]\n\n"))
	}))
	defer server.Close()

	analyzer := newTestAnalyzer(server.URL, time.Second)
	first := analyzer.Analyze(context.Background(), testResult, "", "", nil)
	require.Equal(t, StateError, first.State)

	var initial *View
	second := analyzer.Analyze(context.Background(), testResult, "", "", func(v View) {
		if initial == nil {
			initial = &v
		}
	})

	require.NotNil(t, initial)
	assert.Equal(t, View{State: StateLoading, DocumentStatus: PendingStatus}, *initial)
	assert.Equal(t, StateSuccess, second.State)
	assert.Equal(t, "Отменен", second.DocumentStatus)
	assert.Equal(t, "второй", second.Body)
	assert.Empty(t, second.Error)
}

func TestAnalyzer_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		var req wstypes.SearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ГОСТ 2.105", req.Query)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"ГОСТ 2.105","results":[{"title":"ГОСТ 2.105-2019","url":"https://a.example/1","content":"ЕСКД","score":0.9,"published_date":"2020-01-01"}]}`))
	}))
	defer server.Close()

	results, err := newTestAnalyzer(server.URL, time.Second).Search(context.Background(), "ГОСТ 2.105")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ГОСТ 2.105-2019", results[0].Title)
	assert.Equal(t, "https://a.example/1", results[0].URL)
	assert.Equal(t, "2020-01-01", results[0].PublishedAt)
	assert.InDelta(t, 0.9, results[0].Score, 0.001)
}

func TestAnalyzer_SearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Tavily API error"}`))
	}))
	defer server.Close()

	_, err := newTestAnalyzer(server.URL, time.Second).Search(context.Background(), "ГОСТ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tavily API error")
}

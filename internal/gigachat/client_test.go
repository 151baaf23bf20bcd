package gigachat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

type staticToken struct {
	token string
	err   error
}

func (s staticToken) Token(context.Context) (string, error) { return s.token, s.err }

func newAPIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Models(t *testing.T) {
	const body = `{"object":"list","data":[{"id":"GigaChat","object":"model","owned_by":"salutedevices","type":"chat"},{"id":"GigaChat-Pro","object":"model","owned_by":"salutedevices","type":"chat"}]}`
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	c := NewClient(Config{BaseURL: srv.URL}, staticToken{token: "tok"}, logger.NewNop())
	models, err := c.Models(context.Background())
	require.NoError(t, err)

	assert.Equal(t, body, string(models.Raw))
	assert.Equal(t, "list", models.Object)
	require.Len(t, models.Data, 2)
	assert.Equal(t, "GigaChat-Pro", models.Data[1].ID)
	assert.Equal(t, "salutedevices", models.Data[0].OwnedBy)
}

func TestClient_Models_NotJSON(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	c := NewClient(Config{BaseURL: srv.URL}, staticToken{token: "tok"}, logger.NewNop())
	_, err := c.Models(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCompletion))
}

func TestClient_Models_UpstreamError(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Token has expired","type":"auth"}}`))
	})

	c := NewClient(Config{BaseURL: srv.URL}, staticToken{token: "tok"}, logger.NewNop())
	_, err := c.Models(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCompletion))
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))
	assert.Equal(t, "Token has expired", apperrors.GetDetails(err))
}

func TestClient_StreamCompletion(t *testing.T) {
	const stream = "data: {\"choices\":[{\"delta\":{\"content\":\"Статус: Действует\\n\"}}]}\n\ndata: [DONE]\n\n"

	var got map[string]interface{}
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(stream))
	})

	c := NewClient(Config{BaseURL: srv.URL}, staticToken{token: "tok"}, logger.NewNop())
	body, err := c.StreamCompletion(context.Background(), c.NewChatRequest(
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: "sys"},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: "user"},
	))
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, stream, string(raw))

	assert.Equal(t, "GigaChat:latest", got["model"])
	assert.InDelta(t, 0.7, got["temperature"], 0.0001)
	assert.EqualValues(t, 2000, got["max_tokens"])
	assert.Equal(t, true, got["stream"])
	messages := got["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["content"])
}

func TestClient_StreamCompletion_Rejected(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":429,"message":"Too many requests"}`))
	})

	c := NewClient(Config{BaseURL: srv.URL}, staticToken{token: "tok"}, logger.NewNop())
	_, err := c.StreamCompletion(context.Background(), c.NewChatRequest())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCompletion))
	assert.Equal(t, http.StatusTooManyRequests, apperrors.HTTPStatus(err))
	assert.Equal(t, "Too many requests", apperrors.GetDetails(err))
}

func TestClient_StreamCompletion_TokenErrorKeepsType(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("completion must not be requested without a token")
	})

	tokenErr := apperrors.NewUpstreamError(apperrors.ErrTokenAcquisition, http.StatusUnauthorized, "bad key", errors.New("401"))
	c := NewClient(Config{BaseURL: srv.URL}, staticToken{err: tokenErr}, logger.NewNop())

	_, err := c.StreamCompletion(context.Background(), c.NewChatRequest())
	assert.True(t, apperrors.Is(err, apperrors.ErrTokenAcquisition))
}

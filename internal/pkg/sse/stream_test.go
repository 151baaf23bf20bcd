package sse

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader returns one chunk per Read and then err
type chunkReader struct {
	chunks []string
	err    error
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if r.chunks[0] == "" {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

type flushRecorder struct {
	*httptest.ResponseRecorder
	flushes int
}

func (f *flushRecorder) Flush() {
	f.flushes++
	f.ResponseRecorder.Flush()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestPipe_CopiesAndFlushesEachChunk(t *testing.T) {
	src := &chunkReader{chunks: []string{"data: {\"a\":", "1}\n\n", DoneFrame}}
	w := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}

	n, err := Pipe(context.Background(), w, src, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(len("data: {\"a\":1}\n\n"+DoneFrame)), n)
	assert.Equal(t, "data: {\"a\":1}\n\n"+DoneFrame, w.Body.String())
	assert.Equal(t, 3, w.flushes)
}

func TestPipe_ReadError(t *testing.T) {
	src := &chunkReader{chunks: []string{"data: x\n\n"}, err: errors.New("connection reset")}
	w := httptest.NewRecorder()

	_, err := Pipe(context.Background(), w, src, 8)
	var rerr *ReadError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "data: x\n\n", w.Body.String())
}

func TestPipe_WriteError(t *testing.T) {
	_, err := Pipe(context.Background(), failingWriter{}, strings.NewReader("data"), 0)
	assert.ErrorIs(t, err, ErrClientGone)
}

func TestPipe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Pipe(ctx, httptest.NewRecorder(), strings.NewReader("data"), 0)
	assert.ErrorIs(t, err, ErrClientGone)
}

func TestSetHeaders(t *testing.T) {
	h := http.Header{}
	SetHeaders(h, "")
	assert.Equal(t, "text/event-stream", h.Get("Content-Type"))
	assert.Equal(t, "no-cache", h.Get("Cache-Control"))
	assert.Equal(t, "keep-alive", h.Get("Connection"))
	assert.Equal(t, "no", h.Get("X-Accel-Buffering"))

	SetHeaders(h, "text/event-stream; charset=utf-8")
	assert.Equal(t, "text/event-stream; charset=utf-8", h.Get("Content-Type"))
}

func TestWriteDone(t *testing.T) {
	w := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	require.NoError(t, WriteDone(w))
	assert.Equal(t, "data: [DONE]\n\n", w.Body.String())
	assert.Equal(t, 1, w.flushes)
}

package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DoneFrame terminates a completion stream
const DoneFrame = "data: [DONE]\n\n"

// DefaultBufferSize is the chunk size Pipe reads with
const DefaultBufferSize = 4 << 10

// ReadError reports that the source failed after the response had started
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("sse: read upstream: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ErrClientGone is returned when the downstream writer fails or the request is cancelled
var ErrClientGone = errors.New("sse: client gone")

// SetHeaders marks a response as an unbuffered event stream
func SetHeaders(h http.Header, contentType string) {
	if contentType == "" {
		contentType = "text/event-stream"
	}
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// Pipe copies src to w chunk by chunk, flushing after every write when w
// supports it. It does not parse the bytes. A clean EOF returns nil; a
// source failure returns *ReadError; a write failure or cancelled ctx
// returns ErrClientGone.
func Pipe(ctx context.Context, w io.Writer, src io.Reader, bufSize int) (int64, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, bufSize)

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("%w: %v", ErrClientGone, err)
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, fmt.Errorf("%w: %v", ErrClientGone, werr)
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			if ctx.Err() != nil {
				return written, fmt.Errorf("%w: %v", ErrClientGone, ctx.Err())
			}
			return written, &ReadError{Err: rerr}
		}
	}
}

// WriteDone writes the terminal frame and flushes
func WriteDone(w io.Writer) error {
	if _, err := io.WriteString(w, DoneFrame); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

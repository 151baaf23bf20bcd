package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"
)

// BrowserUserAgent is sent to document sites that reject non-browser clients
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures New
type Options struct {
	// Timeout bounds the whole exchange including the body; zero means none
	Timeout time.Duration
	// ResponseHeaderTimeout bounds the wait for reply headers only, for streamed bodies
	ResponseHeaderTimeout time.Duration
	// InsecureSkipVerify disables certificate checks (GigaChat and many GOST mirrors use self-signed chains)
	InsecureSkipVerify bool
}

// New creates an HTTP client with a pooled transport
func New(opts Options) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
	}
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}
}

// NewHTTPClient creates a verifying client with the specified timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	return New(Options{Timeout: timeout})
}

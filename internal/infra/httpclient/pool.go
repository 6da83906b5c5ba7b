package httpclient

import (
	"net/http"
	"time"
)

// sharedTransport is reused across all pooled clients so the embedder,
// summarizer and feed clients share one connection pool instead of
// re-handshaking per request.
var sharedTransport = &http.Transport{
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     120 * time.Second,
	DisableKeepAlives:   false,
}

// NewPooledClient creates an http.Client with the shared transport and
// the given per-request timeout.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}

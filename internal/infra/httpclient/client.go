// Package httpclient builds the outbound HTTP clients shared by the storage
// providers and the ledger. They never retry: one request, one answer.
package httpclient

import (
	"net/http"
	"time"

	"github.com/gojektech/heimdall/v6/httpclient"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 30 * time.Second

// Doer is the subset of an HTTP client the providers use.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns a heimdall client with retries disabled and an otelhttp
// transport, bounded by timeout.
func New(timeout time.Duration) *httpclient.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return httpclient.NewClient(
		httpclient.WithHTTPClient(NewHTTP(timeout)),
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetryCount(0),
	)
}

// NewHTTP returns a plain *http.Client with the otelhttp transport, for SDKs
// that take a standard client.
func NewHTTP(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

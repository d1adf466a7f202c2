package httpclient

import (
	"context"
	"net/url"
)

// HTTPClientInterface defines the interface for HTTP client implementations.
type HTTPClientInterface interface {
	// DoRequest makes an HTTP request with the given options and returns the response body.
	DoRequest(ctx context.Context, opts RequestOptions) ([]byte, error)

	// PostJSON posts a JSON document to path and returns the response body.
	PostJSON(ctx context.Context, path string, data []byte) ([]byte, error)

	// PostForm posts form fields to path, as multipart/form-data when file is non-nil.
	PostForm(ctx context.Context, path string, form url.Values, file *FilePart) ([]byte, error)
}

// Compile-time check that both implementations satisfy the interface.
var _ HTTPClientInterface = &HTTPClient{}
var _ HTTPClientInterface = &TestHTTPClient{}

package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
)

// TestHTTPClient serves requests directly through an http.Handler.
// It uses httptest.NewRecorder to capture responses without making network calls.
type TestHTTPClient struct {
	config  Configurator
	handler http.Handler
}

// NewTestClient creates a test HTTP client that dispatches every request to handler.
func NewTestClient(config Configurator, handler http.Handler) *TestHTTPClient {
	return &TestHTTPClient{
		config:  config,
		handler: handler,
	}
}

// DoRequest builds the request exactly as HTTPClient does and serves it in process.
func (c *TestHTTPClient) DoRequest(ctx context.Context, opts RequestOptions) ([]byte, error) {
	req, err := newRequest(ctx, c.config, opts)
	if err != nil {
		return nil, err
	}

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	body := rr.Body.Bytes()

	if err := checkResponse(rr.Code, body); err != nil {
		return nil, err
	}
	return body, nil
}

// PostJSON posts a JSON document to path.
func (c *TestHTTPClient) PostJSON(ctx context.Context, path string, data []byte) ([]byte, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   path,
		Body:   data,
	})
}

// PostForm posts form fields, and optionally a file part, to path.
func (c *TestHTTPClient) PostForm(ctx context.Context, path string, form url.Values, file *FilePart) ([]byte, error) {
	opts, err := formRequestOptions(path, form, file)
	if err != nil {
		return nil, err
	}
	return c.DoRequest(ctx, opts)
}

// Package httpclient provides a configurable HTTP client for making requests to REST APIs.
// It builds JSON, form-encoded and multipart requests against a configured server URL,
// tags each request with a request id, and turns error responses into HTTPError values.
// The package requires a Configurator implementation for the server location.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/leeroo-ai/leeroo/internal/common/apperrors"
	"github.com/leeroo-ai/leeroo/internal/common/logtrace"
	"github.com/leeroo-ai/leeroo/internal/common/uuid"
)

// Configurator provides the server location the client talks to.
type Configurator interface {
	GetServerURL() string
}

var (
	ErrInvalidServerURL = apperrors.New(apperrors.KindValidation, "invalid server URL")
	ErrRequestFailed    = apperrors.New(apperrors.KindTransport, "request failed")
	ErrReadContent      = apperrors.New(apperrors.KindFilesystem, "unable to read request content")
)

// HTTPError represents an error response from the server with HTTP status code and message.
// Body holds the response as received so callers can still decode the server's answer.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Message    string // Error message or response body
	Body       []byte // Raw response body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	return e.Message
}

// HTTPClient represents a client for making HTTP requests to a REST API server.
type HTTPClient struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	Timeout               time.Duration // Overall request timeout, zero means none
	HTTPClient            *http.Client  // Use this client instead of building one
	DisableCertValidation bool          // If true, skips SSL certificate validation
}

// NewClient creates a new HTTP client using the provided configuration.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	return NewClientWithOptions(config, clientOpts)
}

// NewClientWithOptions creates a new HTTP client using the provided configuration and options.
func NewClientWithOptions(config Configurator, opts ClientOptions) *HTTPClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
		if opts.DisableCertValidation {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			}
		}
	}

	return &HTTPClient{
		config:     config,
		httpClient: httpClient,
	}
}

// RequestOptions contains options for making HTTP requests.
type RequestOptions struct {
	Method      string // HTTP method
	Path        string // API endpoint path, a trailing slash is preserved
	Body        []byte // Optional request body
	ContentType string // Defaults to application/json
}

// DoRequest makes an HTTP request with the given options and returns the response body.
// Network failures are reported as ErrRequestFailed, error statuses as *HTTPError.
func (c *HTTPClient) DoRequest(ctx context.Context, opts RequestOptions) ([]byte, error) {
	req, err := newRequest(ctx, c.config, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ErrRequestFailed.MsgErr(opts.Method+" "+opts.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrRequestFailed.MsgErr("failed to read response body", err)
	}

	log.Debug().
		Str("method", opts.Method).
		Str("path", opts.Path).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if err := checkResponse(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// PostJSON posts a JSON document to path.
func (c *HTTPClient) PostJSON(ctx context.Context, path string, data []byte) ([]byte, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   path,
		Body:   data,
	})
}

// PostForm posts form fields to path. When file is non-nil the request is sent as
// multipart/form-data with the file as an extra part, otherwise it is url-encoded.
func (c *HTTPClient) PostForm(ctx context.Context, path string, form url.Values, file *FilePart) ([]byte, error) {
	opts, err := formRequestOptions(path, form, file)
	if err != nil {
		return nil, err
	}
	return c.DoRequest(ctx, opts)
}

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

func newRequest(ctx context.Context, config Configurator, opts RequestOptions) (*http.Request, error) {
	u, err := url.Parse(config.GetServerURL())
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidServerURL.MsgErr(fmt.Sprintf("invalid server URL %q", config.GetServerURL()), err)
	}
	u = u.JoinPath(opts.Path)

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), body)
	if err != nil {
		return nil, ErrRequestFailed.MsgErr("failed to create request", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	requestID := logtrace.RequestIdFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, requestID)
	return req, nil
}

// checkResponse converts an error status into *HTTPError. The message is taken from an
// "error", "detail" or "message" field when the body is JSON, else the raw body.
func checkResponse(status int, body []byte) error {
	if status < http.StatusBadRequest {
		return nil
	}
	msg := serverMessage(body)
	if msg == "" && status == http.StatusNotFound {
		msg = "server doesn't implement this endpoint"
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &HTTPError{
		StatusCode: status,
		Message:    msg,
		Body:       body,
	}
}

func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		r := gjson.GetBytes(body, key)
		if !r.Exists() {
			continue
		}
		if r.Type == gjson.String {
			return r.String()
		}
		return r.Raw
	}
	return ""
}

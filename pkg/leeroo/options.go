package leeroo

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leeroo-ai/leeroo/internal/common/httpclient"
)

// Endpoint selects one of the well-known Leeroo API deployments.
type Endpoint int

const (
	Production Endpoint = iota
	Local
)

const (
	ProductionURL = "https://api.leeroo.com"
	LocalURL      = "http://local_host:8000"
)

// URL returns the base URL of the endpoint.
func (e Endpoint) URL() string {
	if e == Local {
		return LocalURL
	}
	return ProductionURL
}

func (e Endpoint) String() string {
	if e == Local {
		return "local"
	}
	return "production"
}

// ParseEndpoint accepts "production" or "local", case-insensitively.
func ParseEndpoint(s string) (Endpoint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "production", "prod":
		return Production, nil
	case "local":
		return Local, nil
	default:
		return Production, ErrInvalidArgument.New(fmt.Sprintf("unknown endpoint %q", s))
	}
}

// Option configures a Session at construction.
type Option func(*sessionConfig)

type sessionConfig struct {
	endpoint   Endpoint
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	insecure   bool
	printer    StatusPrinter
	logger     *zerolog.Logger
	requester  httpclient.HTTPClientInterface
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		endpoint: Production,
	}
}

// WithEndpoint selects the production or local API. Ignored when WithBaseURL is set.
func WithEndpoint(e Endpoint) Option {
	return func(c *sessionConfig) {
		c.endpoint = e
	}
}

// WithBaseURL points the session at a custom API location.
func WithBaseURL(baseURL string) Option {
	return func(c *sessionConfig) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sends requests through the given client, for custom transports,
// proxies or timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(c *sessionConfig) {
		c.httpClient = client
	}
}

// WithTimeout bounds every request. Ignored when WithHTTPClient is set.
func WithTimeout(timeout time.Duration) Option {
	return func(c *sessionConfig) {
		c.timeout = timeout
	}
}

// WithInsecureSkipVerify disables TLS certificate checks, for development servers with
// self-signed certificates. Ignored when WithHTTPClient is set.
func WithInsecureSkipVerify() Option {
	return func(c *sessionConfig) {
		c.insecure = true
	}
}

// WithStatusPrinter replaces the terminal printer used by verbose GetWorkflowStatus calls.
func WithStatusPrinter(p StatusPrinter) Option {
	return func(c *sessionConfig) {
		c.printer = p
	}
}

// WithLogger sets the logger for session diagnostics. Defaults to the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *sessionConfig) {
		c.logger = &l
	}
}

// withRequester replaces the HTTP layer entirely; used by tests.
func withRequester(r httpclient.HTTPClientInterface) Option {
	return func(c *sessionConfig) {
		c.requester = r
	}
}

func (c *sessionConfig) resolveBaseURL() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return c.endpoint.URL()
}

func (c *sessionConfig) resolveLogger() zerolog.Logger {
	if c.logger != nil {
		return *c.logger
	}
	return log.Logger
}

func (c *sessionConfig) resolvePrinter() StatusPrinter {
	if c.printer != nil {
		return c.printer
	}
	return NewColorStatusPrinter(nil)
}

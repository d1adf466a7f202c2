package leeroo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/leeroo-ai/leeroo/internal/common/httpclient"
)

// API paths, relative to the session base URL.
const (
	pathAuthenticate       = "/authenticate/"
	pathInitializeWorkflow = "/initialize_workflow_configs/"
	pathSubmitWorkflow     = "/submit_workflow/"
	pathUserWorkflows      = "/get_user_workflows/"
	pathWorkflowStatus     = "/get_workflow_status/"
	pathDeployWorkflow     = "/deploy_workflow/"
	pathDeploymentStatus   = "/check_deployment_status/"
	pathKillDeployment     = "/kill_deployment/"
	pathPrintWorkflow      = "/print_workflow/"
	pathKillWorkflow       = "/kill_workflow/"
)

// Numbers stay json.Number so opaque configs round-trip without float conversion.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Session is a client bound to one authenticated Leeroo user. The base URL, API key and
// user id are fixed once Authenticate returns, so a Session is safe for concurrent use.
type Session struct {
	baseURL string
	apiKey  string
	userID  string
	client  httpclient.HTTPClientInterface
	printer StatusPrinter
	logger  zerolog.Logger
}

// Authenticate exchanges apiKey for a user id and returns a ready Session.
// It fails with ErrAuthentication when the server does not return a user id.
func Authenticate(ctx context.Context, apiKey string, opts ...Option) (*Session, error) {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		baseURL: cfg.resolveBaseURL(),
		apiKey:  apiKey,
		printer: cfg.resolvePrinter(),
		logger:  cfg.resolveLogger(),
	}
	if apiKey == "" {
		return nil, ErrAuthentication.New("API key is empty")
	}

	s.client = cfg.requester
	if s.client == nil {
		s.client = httpclient.NewClient(s, httpclient.ClientOptions{
			Timeout:               cfg.timeout,
			HTTPClient:            cfg.httpClient,
			DisableCertValidation: cfg.insecure,
		})
	}

	body, err := s.client.PostForm(ctx, pathAuthenticate, url.Values{FieldAPIKey: {apiKey}}, nil)
	status := 0
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, ErrAuthentication.Err(err).SetStatusCode(status)
		}
	}
	body, err = s.responseBody(pathAuthenticate, body, err)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrDecoding.Msg(fmt.Sprintf("invalid JSON response from %s", pathAuthenticate)).SetStatusCode(status)
	}

	userID := gjson.GetBytes(body, FieldUserID)
	if !userID.Exists() || userID.Type == gjson.Null || userID.String() == "" {
		if httpErr != nil {
			return nil, ErrAuthentication.Err(httpErr).SetStatusCode(status)
		}
		return nil, ErrAuthentication
	}
	s.userID = userID.String()

	s.logger.Info().Str("user_id", s.userID).Str("server", s.baseURL).Msg("user logged in")
	return s, nil
}

// GetServerURL implements httpclient.Configurator.
func (s *Session) GetServerURL() string {
	return s.baseURL
}

// BaseURL returns the API location the session talks to.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// APIKey returns the key the session authenticated with.
func (s *Session) APIKey() string {
	return s.apiKey
}

// UserID returns the user id resolved by Authenticate.
func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) checkAuthenticated() error {
	if s.userID == "" {
		return ErrInvalidArgument.New("session is not authenticated")
	}
	return nil
}

// postJSON sends payload as a JSON body, decodes the response into out and
// returns the raw response body.
func (s *Session) postJSON(ctx context.Context, path string, payload map[string]any, out any) ([]byte, error) {
	if err := s.checkAuthenticated(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrInvalidArgument.MsgErr("unable to encode request body", err)
	}
	body, err := s.client.PostJSON(ctx, path, data)
	body, err = s.responseBody(path, body, err)
	if err != nil {
		return nil, err
	}
	return body, decode(path, body, out)
}

func (s *Session) postForm(ctx context.Context, path string, form url.Values, file *httpclient.FilePart, out any) error {
	if err := s.checkAuthenticated(); err != nil {
		return err
	}
	body, err := s.client.PostForm(ctx, path, form, file)
	body, err = s.responseBody(path, body, err)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

// responseBody returns the body to decode for a finished call. A JSON answer is the
// server's response whatever the HTTP status; only error statuses without one fail.
func (s *Session) responseBody(path string, body []byte, err error) ([]byte, error) {
	if err == nil {
		return body, nil
	}
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		return nil, classify(err)
	}
	if gjson.ValidBytes(httpErr.Body) {
		s.logger.Warn().Str("path", path).Int("status", httpErr.StatusCode).Msg("server answered with an error status")
		return httpErr.Body, nil
	}
	return nil, ErrDecoding.MsgErr(fmt.Sprintf("%s returned %d without a JSON body", path, httpErr.StatusCode), err).
		SetStatusCode(httpErr.StatusCode)
}

func decode(path string, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrDecoding.Msg(fmt.Sprintf("empty response from %s", path))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return ErrDecoding.MsgErr(fmt.Sprintf("invalid JSON response from %s", path), err)
	}
	return nil
}

// printNodeStatus walks the node status object of a raw status response in server order.
func (s *Session) printNodeStatus(body []byte) {
	nodes := gjson.GetBytes(body, FieldNodeStatus)
	if !nodes.IsObject() {
		return
	}
	nodes.ForEach(func(node, state gjson.Result) bool {
		s.printer.PrintNodeStatus(node.String(), state.String())
		return true
	})
}

package leeroo

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/leeroo-ai/leeroo/internal/common/httpclient"
)

// InitOption configures InitializeWorkflow.
type InitOption func(*initConfig)

type initConfig struct {
	budget int
}

// WithBudget sets the maximum spend for the workflow in USD. Defaults to DefaultBudget.
func WithBudget(budget int) InitOption {
	return func(c *initConfig) {
		c.budget = budget
	}
}

// InitializeWorkflow asks the server to plan a workflow for the described task and returns
// the generated experiment configuration. When seedDataPath is non-empty the file is
// uploaded as the multipart part "seed_data"; it is expected to hold a JSON array of
// {"query", "response"} objects but is sent as-is.
func (s *Session) InitializeWorkflow(ctx context.Context, description, name, seedDataPath string, opts ...InitOption) (WorkflowConfig, error) {
	if err := s.checkAuthenticated(); err != nil {
		return nil, err
	}
	cfg := initConfig{budget: DefaultBudget}
	for _, opt := range opts {
		opt(&cfg)
	}

	form := url.Values{
		FieldUserID:          {s.userID},
		FieldAPIKey:          {s.apiKey},
		FieldTaskDescription: {description},
		FieldWorkflowName:    {name},
		FieldBudget:          {strconv.Itoa(cfg.budget)},
	}

	var file *httpclient.FilePart
	if seedDataPath != "" {
		f, err := os.Open(seedDataPath)
		if err != nil {
			return nil, ErrFilesystem.MsgErr(fmt.Sprintf("unable to open seed data %s", seedDataPath), err)
		}
		defer f.Close()
		file = &httpclient.FilePart{
			FieldName:   FieldSeedData,
			FileName:    seedDataPath,
			ContentType: "application/octet-stream",
			Content:     f,
		}
	}

	var out any
	if err := s.postForm(ctx, pathInitializeWorkflow, form, file, &out); err != nil {
		return nil, err
	}
	switch v := out.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return WorkflowConfig(v), nil
	default:
		return nil, ErrDecoding.New(fmt.Sprintf("%s returned a JSON %s, expected an object", pathInitializeWorkflow, jsonKind(v)))
	}
}

// SubmitWorkflow submits a workflow configuration for execution. The user id and API key
// are written into workflowConfig before it is sent, so the caller's map is modified.
// The response carries the run id used by the other workflow calls, see RunID.
func (s *Session) SubmitWorkflow(ctx context.Context, workflowConfig WorkflowConfig) (WorkflowStatus, error) {
	if err := s.checkAuthenticated(); err != nil {
		return nil, err
	}
	if workflowConfig == nil {
		return nil, ErrInvalidArgument.New("workflow config is nil")
	}
	workflowConfig[FieldUserID] = s.userID
	workflowConfig[FieldAPIKey] = s.apiKey

	return s.call(ctx, pathSubmitWorkflow, workflowConfig)
}

// ListWorkflows returns the running and completed workflows of the user.
func (s *Session) ListWorkflows(ctx context.Context) (WorkflowCollection, error) {
	return s.call(ctx, pathUserWorkflows, s.userPayload(nil))
}

// GetWorkflowStatus returns the status of a running workflow. With verbose set, each
// entry of the "workflow_node_status" mapping is handed to the session's StatusPrinter;
// the returned value is the server response unchanged.
func (s *Session) GetWorkflowStatus(ctx context.Context, runID string, verbose bool) (WorkflowStatus, error) {
	var out any
	body, err := s.postJSON(ctx, pathWorkflowStatus, s.userPayload(map[string]any{FieldRunID: runID}), &out)
	if err != nil {
		return nil, err
	}
	if verbose {
		s.printNodeStatus(body)
	}
	return out, nil
}

// PrintWorkflow returns the server-rendered representation of the workflow DAG.
func (s *Session) PrintWorkflow(ctx context.Context, runID string) (WorkflowDescription, error) {
	return s.call(ctx, pathPrintWorkflow, s.keyPayload(FieldRunID, runID))
}

// KillWorkflow terminates a running workflow.
func (s *Session) KillWorkflow(ctx context.Context, runID string) (WorkflowStatus, error) {
	return s.call(ctx, pathKillWorkflow, s.keyPayload(FieldRunID, runID))
}

// call posts payload and returns the decoded response as is.
func (s *Session) call(ctx context.Context, path string, payload map[string]any) (any, error) {
	var out any
	if _, err := s.postJSON(ctx, path, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// userPayload returns extra plus the user id and API key.
func (s *Session) userPayload(extra map[string]any) map[string]any {
	payload := map[string]any{
		FieldUserID: s.userID,
		FieldAPIKey: s.apiKey,
	}
	for k, v := range extra {
		payload[k] = v
	}
	return payload
}

// keyPayload returns {key: value, "api_key": ...}; the calls addressing a single
// workflow or cluster do not send the user id.
func (s *Session) keyPayload(key, value string) map[string]any {
	return map[string]any{
		key:         value,
		FieldAPIKey: s.apiKey,
	}
}

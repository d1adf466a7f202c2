package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeroo-ai/leeroo/pkg/leeroo"
)

type scriptedStatus struct {
	responses []leeroo.WorkflowStatus
	err       error
	calls     int
}

func (s *scriptedStatus) GetWorkflowStatus(ctx context.Context, runID string, verbose bool) (leeroo.WorkflowStatus, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	i := s.calls - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

func nodes(states map[string]any) leeroo.WorkflowStatus {
	return map[string]any{"workflow_node_status": states}
}

func TestWorkflowStatusViewFinished(t *testing.T) {
	tests := []struct {
		name     string
		states   map[string]string
		finished bool
		active   []string
	}{
		{name: "no nodes yet", states: nil, finished: false},
		{name: "all executed", states: map[string]string{"a": "Executed", "b": "Executed"}, finished: true},
		{name: "one running", states: map[string]string{"a": "Executed", "b": "running"}, active: []string{"b"}},
		{name: "pending and queued", states: map[string]string{"b": "Pending", "a": "queued"}, active: []string{"a", "b"}},
		{name: "failed counts as done", states: map[string]string{"a": "Failed"}, finished: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := workflowStatusView{Nodes: tt.states}
			assert.Equal(t, tt.finished, view.finished())
			assert.Equal(t, tt.active, view.activeNodes())
		})
	}
}

func TestWaitForWorkflow(t *testing.T) {
	fetcher := &scriptedStatus{responses: []leeroo.WorkflowStatus{
		map[string]any{"status": "queued"},
		"accepted",
		nodes(map[string]any{"a": "running", "b": "not started"}),
		nodes(map[string]any{"a": "Executed", "b": "running"}),
		nodes(map[string]any{"a": "Executed", "b": "Executed"}),
	}}

	var polls []workflowStatusView
	status, err := waitForWorkflow(context.Background(), fetcher, "run-1", time.Millisecond, func(v workflowStatusView) {
		polls = append(polls, v)
	})
	require.NoError(t, err)
	assert.Equal(t, 5, fetcher.calls)
	assert.Len(t, polls, 5)
	assert.Equal(t, map[string]string{"a": "Executed", "b": "Executed"}, leeroo.NodeStatuses(status))
}

func TestWaitForWorkflowStopsOnError(t *testing.T) {
	callErr := errors.New("boom")
	fetcher := &scriptedStatus{err: callErr}

	_, err := waitForWorkflow(context.Background(), fetcher, "run-1", time.Millisecond, nil)
	assert.ErrorIs(t, err, callErr)
	assert.Equal(t, 1, fetcher.calls)
}

func TestWaitForWorkflowHonorsContext(t *testing.T) {
	fetcher := &scriptedStatus{responses: []leeroo.WorkflowStatus{
		nodes(map[string]any{"a": "running"}),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := waitForWorkflow(ctx, fetcher, "run-1", 5*time.Millisecond, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, fetcher.calls, 1)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/leeroo-ai/leeroo/pkg/leeroo"
)

var errWorkflowInProgress = errors.New("workflow still in progress")

// activeStates are the node state fragments that mean work is outstanding.
var activeStates = []string{"running", "pending", "queued"}

type statusFetcher interface {
	GetWorkflowStatus(ctx context.Context, runID string, verbose bool) (leeroo.WorkflowStatus, error)
}

// workflowStatusView is the part of a status response the waiter inspects.
type workflowStatusView struct {
	Nodes map[string]string `mapstructure:"workflow_node_status"`
}

func (v workflowStatusView) activeNodes() []string {
	var nodes []string
	for node, state := range v.Nodes {
		s := strings.ToLower(state)
		for _, active := range activeStates {
			if strings.Contains(s, active) {
				nodes = append(nodes, node)
				break
			}
		}
	}
	sort.Strings(nodes)
	return nodes
}

// finished reports whether every node reached a state that is not active.
// A response without node states is not finished: the run has not started.
func (v workflowStatusView) finished() bool {
	return len(v.Nodes) > 0 && len(v.activeNodes()) == 0
}

// waitForWorkflow polls the status of runID every interval until no node is
// active. It stops on the first call error or when ctx is done.
func waitForWorkflow(ctx context.Context, f statusFetcher, runID string, interval time.Duration, onPoll func(workflowStatusView)) (leeroo.WorkflowStatus, error) {
	return retry.DoWithData(func() (leeroo.WorkflowStatus, error) {
		status, err := f.GetWorkflowStatus(ctx, runID, false)
		if err != nil {
			return nil, err
		}

		var view workflowStatusView
		if m, ok := status.(map[string]any); ok {
			if err := decodeView(m, &view); err != nil {
				return nil, fmt.Errorf("unable to read node states of %s: %w", runID, err)
			}
		}
		if onPoll != nil {
			onPoll(view)
		}
		if !view.finished() {
			return nil, errWorkflowInProgress
		}
		return status, nil
	},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errWorkflowInProgress)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Str("run_id", runID).Uint("poll", n+1).Msg("workflow in progress")
		}),
	)
}

package leeroo

import (
	"fmt"
)

// Request and response field names used by the Leeroo API. The run id field name is
// spelled the way the server spells it.
const (
	FieldUserID          = "user_id"
	FieldAPIKey          = "api_key"
	FieldRunID           = "workflow_runnning_state_id"
	FieldClusterName     = "cluster_name"
	FieldNodeStatus      = "workflow_node_status"
	FieldTaskDescription = "task_description"
	FieldWorkflowName    = "workflow_name"
	FieldBudget          = "budget"
	FieldSeedData        = "seed_data"
)

// DefaultBudget is the workflow budget sent when none is given.
const DefaultBudget = 2

// Responses are decoded JSON of whatever shape the server sends: objects become
// map[string]any, arrays []any, numbers json.Number. Only WorkflowConfig is required to
// be an object, since SubmitWorkflow adds fields to it.

// WorkflowConfig is the server-defined experiment configuration returned by
// InitializeWorkflow. Its contents are opaque to the client and may be edited by
// the caller before it is passed to SubmitWorkflow.
type WorkflowConfig map[string]any

// WorkflowStatus is the server's description of a submitted workflow.
type WorkflowStatus any

// WorkflowCollection lists the running and completed workflows of the user.
type WorkflowCollection any

// WorkflowDescription is the server-rendered form of a workflow DAG.
type WorkflowDescription any

// DeploymentStatus describes a deployment request or a running deployment.
type DeploymentStatus any

// RunID returns the running-workflow identifier from a SubmitWorkflow response,
// or "" when the response carries none.
func RunID(status WorkflowStatus) string {
	return stringField(status, FieldRunID)
}

// NodeStatuses returns the per-node states reported by GetWorkflowStatus.
// Non-string states are formatted with fmt.Sprint.
func NodeStatuses(status WorkflowStatus) map[string]string {
	m, _ := status.(map[string]any)
	raw, ok := m[FieldNodeStatus].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for node, state := range raw {
		out[node] = formatState(state)
	}
	return out
}

// ClusterName returns the cluster name from a DeployWorkflow response.
func ClusterName(deployment DeploymentStatus) string {
	return stringField(deployment, FieldClusterName)
}

func stringField(v any, key string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	field, ok := m[key]
	if !ok || field == nil {
		return ""
	}
	return fmt.Sprint(field)
}

func formatState(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func jsonKind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}

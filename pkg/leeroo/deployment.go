package leeroo

import (
	"context"
)

// DeployWorkflow requests a deployment of a workflow's result. The response is
// expected to name the cluster, see ClusterName.
func (s *Session) DeployWorkflow(ctx context.Context, runID string) (DeploymentStatus, error) {
	return s.call(ctx, pathDeployWorkflow, s.keyPayload(FieldRunID, runID))
}

// GetDeploymentStatus reports the state of a deployment.
func (s *Session) GetDeploymentStatus(ctx context.Context, clusterName string) (DeploymentStatus, error) {
	return s.call(ctx, pathDeploymentStatus, s.keyPayload(FieldClusterName, clusterName))
}

// KillDeployment terminates a deployment.
func (s *Session) KillDeployment(ctx context.Context, clusterName string) (DeploymentStatus, error) {
	return s.call(ctx, pathKillDeployment, s.keyPayload(FieldClusterName, clusterName))
}

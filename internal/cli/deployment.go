package cli

import (
	"github.com/spf13/cobra"

	"github.com/leeroo-ai/leeroo/pkg/leeroo"
)

// deploymentCmd represents the deployment command
var deploymentCmd = &cobra.Command{
	Use:   "deployment [command]",
	Short: "Deploy finished workflows and manage their clusters",
	Long: `Deploy finished workflows and manage the clusters serving them.

Available Commands:
  create  Deploy a finished workflow
  status  Show the status of a deployment
  kill    Tear down a deployment`,
}

var deploymentCreateCmd = &cobra.Command{
	Use:   "create RUN_ID",
	Short: "Deploy a finished workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}
		deployment, err := session.DeployWorkflow(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResponse(deployment)
		}
		if cluster := leeroo.ClusterName(deployment); cluster != "" {
			printDone("Deployment started on cluster %s", cluster)
			return nil
		}
		return printResponse(deployment)
	},
}

var deploymentStatusCmd = &cobra.Command{
	Use:   "status CLUSTER",
	Short: "Show the status of a deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}
		deployment, err := session.GetDeploymentStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResponse(deployment)
	},
}

var deploymentKillCmd = &cobra.Command{
	Use:   "kill CLUSTER",
	Short: "Tear down a deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}
		deployment, err := session.KillDeployment(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResponse(deployment)
		}
		printDone("Deployment %s killed", args[0])
		return nil
	},
}

func init() {
	deploymentCmd.AddCommand(deploymentCreateCmd)
	deploymentCmd.AddCommand(deploymentStatusCmd)
	deploymentCmd.AddCommand(deploymentKillCmd)
	rootCmd.AddCommand(deploymentCmd)
}

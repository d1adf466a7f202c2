package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/leeroo-ai/leeroo/internal/seeddata"
	"github.com/leeroo-ai/leeroo/pkg/leeroo"
)

// workflowCmd represents the workflow command
var workflowCmd = &cobra.Command{
	Use:   "workflow [command]",
	Short: "Initialize, submit and follow Leeroo workflows",
	Long: `Initialize, submit and follow Leeroo workflows.
A workflow is a graph of experiments planned and executed by the Leeroo server.

Available Commands:
  init    Generate a workflow configuration from a task description
  submit  Submit a workflow configuration for execution
  list    List your workflows
  status  Show the status of a running workflow
  print   Show the description of a running workflow
  kill    Stop a running workflow
  config  Inspect and edit saved workflow configurations`,
}

var workflowInitCmd = &cobra.Command{
	Use:   "init DESCRIPTION --name NAME [--seed FILE] [--budget N] [--out FILE]",
	Short: "Generate a workflow configuration from a task description",
	Long: `Generate a workflow configuration from a task description and optional seed data.
The seed file is checked locally before upload unless --skip-seed-check is given.

Example:
  leeroo workflow init "Classify support tickets" --name tickets --seed seed.json --out tickets.json`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflowInit,
}

var workflowSubmitCmd = &cobra.Command{
	Use:   "submit FILE",
	Short: "Submit a workflow configuration for execution",
	Long: `Submit a workflow configuration (JSON or YAML) for execution.
With --expand-env, {{ .ENV.NAME }} placeholders are replaced by environment variables first.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflowSubmit,
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your workflows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}
		listing, err := session.ListWorkflows(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResponse(listing)
		}
		printWorkflowList(listing)
		return nil
	},
}

var workflowStatusCmd = &cobra.Command{
	Use:   "status RUN_ID [--wait]",
	Short: "Show the status of a running workflow",
	Long: `Show the per-node status of a running workflow.
With --wait, the status is polled until no node is running.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflowStatus,
}

var workflowPrintCmd = &cobra.Command{
	Use:   "print RUN_ID",
	Short: "Show the description of a running workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}
		description, err := session.PrintWorkflow(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResponse(description)
	},
}

var workflowKillCmd = &cobra.Command{
	Use:   "kill RUN_ID",
	Short: "Stop a running workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}
		status, err := session.KillWorkflow(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResponse(status)
		}
		printDone("Workflow %s killed", args[0])
		return nil
	},
}

func init() {
	workflowInitCmd.Flags().StringP("name", "n", "", "Workflow name")
	workflowInitCmd.Flags().StringP("seed", "s", "", "Seed data file")
	workflowInitCmd.Flags().Int("budget", leeroo.DefaultBudget, "Budget for the workflow")
	workflowInitCmd.Flags().StringP("out", "o", "", "Write the generated configuration to this file")
	workflowInitCmd.Flags().Bool("skip-seed-check", false, "Upload the seed file without checking it")
	workflowInitCmd.MarkFlagRequired("name")

	workflowSubmitCmd.Flags().Bool("expand-env", false, "Replace {{ .ENV.NAME }} placeholders before submitting")

	workflowStatusCmd.Flags().BoolP("wait", "w", false, "Poll until no node is running")
	workflowStatusCmd.Flags().Duration("interval", 10*time.Second, "Polling interval for --wait")
	workflowStatusCmd.Flags().Duration("timeout", 0, "Give up waiting after this long (0 waits indefinitely)")

	workflowCmd.AddCommand(workflowInitCmd)
	workflowCmd.AddCommand(workflowSubmitCmd)
	workflowCmd.AddCommand(workflowListCmd)
	workflowCmd.AddCommand(workflowStatusCmd)
	workflowCmd.AddCommand(workflowPrintCmd)
	workflowCmd.AddCommand(workflowKillCmd)
	workflowCmd.AddCommand(newWorkflowConfigCmd())
	rootCmd.AddCommand(workflowCmd)
}

func runWorkflowInit(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	seed, _ := cmd.Flags().GetString("seed")
	budget, _ := cmd.Flags().GetInt("budget")
	out, _ := cmd.Flags().GetString("out")
	skipCheck, _ := cmd.Flags().GetBool("skip-seed-check")

	if seed != "" && !skipCheck {
		report, err := seeddata.ValidateFile(seed)
		if err != nil {
			return err
		}
		log.Debug().Str("path", report.Path).Int("examples", report.Examples).Msg("seed data checked")
	}

	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	workflowConfig, err := session.InitializeWorkflow(cmd.Context(), args[0], name, seed, leeroo.WithBudget(budget))
	if err != nil {
		return err
	}

	if out == "" {
		return printResponse(workflowConfig)
	}

	if err := writeWorkflowFile(out, workflowConfig); err != nil {
		return err
	}
	encoded, err := json.Marshal(workflowConfig)
	if err != nil {
		return err
	}
	digest, err := configDigest(encoded)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]any{
			"result": 1,
			"file":   out,
			"digest": digest,
		})
	} else {
		printDone("Workflow config written to %s (%s)", out, digest)
	}
	return nil
}

func runWorkflowSubmit(cmd *cobra.Command, args []string) error {
	expand, _ := cmd.Flags().GetBool("expand-env")

	workflowConfig, err := loadWorkflowConfig(args[0], expand)
	if err != nil {
		return err
	}

	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	status, err := session.SubmitWorkflow(cmd.Context(), workflowConfig)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printResponse(status)
	}
	printDone("Workflow submitted. Run ID: %s", leeroo.RunID(status))
	return nil
}

func runWorkflowStatus(cmd *cobra.Command, args []string) error {
	wait, _ := cmd.Flags().GetBool("wait")
	interval, _ := cmd.Flags().GetDuration("interval")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	runID := args[0]

	session, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if wait {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		_, err := waitForWorkflow(ctx, session, runID, interval, func(view workflowStatusView) {
			if jsonOutput {
				return
			}
			if active := view.activeNodes(); len(active) > 0 {
				fmt.Printf("waiting on %s\n", strings.Join(active, ", "))
			}
		})
		if err != nil {
			return err
		}
	}

	status, err := session.GetWorkflowStatus(cmd.Context(), runID, !jsonOutput)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printResponse(status)
	}
	if len(leeroo.NodeStatuses(status)) == 0 {
		return printResponse(status)
	}
	return nil
}

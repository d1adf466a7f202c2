package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newWorkflowConfigCmd creates the workflow config command and its subcommands.
// They operate on saved configuration files and never contact the server.
func newWorkflowConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [command]",
		Short: "Inspect and edit saved workflow configurations",
		Long: `Inspect and edit workflow configurations saved by "leeroo workflow init --out".
Paths use dot notation, e.g. nodes.0.model or budget.`,
	}

	getCmd := &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value at PATH",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readWorkflowFile(args[0], false)
			if err != nil {
				return err
			}
			value, err := getConfigValue(data, args[1])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set FILE PATH VALUE",
		Short: "Set the value at PATH",
		Long: `Set the value at PATH. VALUE is stored as JSON when it parses as JSON
(numbers, booleans, objects, quoted strings) and as a plain string otherwise.

Example:
  leeroo workflow config set tickets.json budget 4
  leeroo workflow config set tickets.json nodes.0.model small`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readWorkflowFile(args[0], false)
			if err != nil {
				return err
			}
			updated, err := setConfigValue(data, args[1], args[2])
			if err != nil {
				return err
			}
			if err := writeIndented(args[0], updated); err != nil {
				return err
			}
			return printDigest(args[0], updated)
		},
	}

	digestCmd := &cobra.Command{
		Use:   "digest FILE",
		Short: "Print a fingerprint of the configuration that ignores formatting and key order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readWorkflowFile(args[0], false)
			if err != nil {
				return err
			}
			return printDigest(args[0], data)
		},
	}

	cmd.AddCommand(getCmd, setCmd, digestCmd)
	return cmd
}

func printDigest(file string, data []byte) error {
	digest, err := configDigest(data)
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(map[string]any{
			"result": 1,
			"file":   file,
			"digest": digest,
		})
	} else {
		fmt.Printf("%s  %s\n", digest, file)
	}
	return nil
}

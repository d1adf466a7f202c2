package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leeroo-ai/leeroo/internal/seeddata"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed [command]",
	Short: "Work with seed data files",
}

var seedValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a seed data file before uploading it",
	Long: `Check that a seed data file is a JSON array of {"query", "response"} pairs.

With --show N, the first N pairs are printed as well.

Example:
  leeroo seed validate seed.json
  leeroo seed validate seed.json --show 3`,
	Args: cobra.ExactArgs(1),
	RunE: runSeedValidate,
}

func runSeedValidate(cmd *cobra.Command, args []string) error {
	show, _ := cmd.Flags().GetInt("show")

	report, err := seeddata.ValidateFile(args[0])
	if err != nil {
		return err
	}
	var examples []seeddata.Example
	if show > 0 {
		examples, err = seeddata.Load(args[0])
		if err != nil {
			return err
		}
		if len(examples) > show {
			examples = examples[:show]
		}
	}

	if jsonOutput {
		value := map[string]any{
			"path":     report.Path,
			"size":     report.Size,
			"examples": report.Examples,
		}
		if examples != nil {
			value["sample"] = examples
		}
		printJSON(map[string]any{
			"result": 1,
			"value":  value,
		})
		return nil
	}
	printDone("%s: %d examples (%d bytes)", report.Path, report.Examples, report.Size)
	for i, ex := range examples {
		fmt.Printf("%d. query: %s\n   response: %s\n", i+1, ex.Query, ex.Response)
	}
	return nil
}

func init() {
	seedValidateCmd.Flags().Int("show", 0, "Print the first N query/response pairs")
	seedCmd.AddCommand(seedValidateCmd)
	rootCmd.AddCommand(seedCmd)
}

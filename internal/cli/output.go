package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"
)

// printResponse prints a server response: wrapped JSON with --json, YAML otherwise.
func printResponse(value any) error {
	if jsonOutput {
		printJSON(map[string]any{
			"result": 1,
			"value":  value,
		})
		return nil
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("unable to render response: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// workflowSummary is the display view of one entry of a workflow listing.
type workflowSummary struct {
	RunID  string `mapstructure:"workflow_runnning_state_id"`
	Name   string `mapstructure:"workflow_name"`
	Status string `mapstructure:"status"`
}

func (w workflowSummary) empty() bool {
	return w.RunID == "" && w.Name == ""
}

func (w workflowSummary) String() string {
	s := w.Name
	if s == "" {
		s = w.RunID
	} else if w.RunID != "" {
		s = fmt.Sprintf("%s (%s)", w.Name, w.RunID)
	}
	if w.Status != "" {
		s += " - " + w.Status
	}
	return s
}

func decodeView(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

type listSection struct {
	Title string
	Lines []string
}

// workflowListSections groups a workflow listing by its top-level keys. A listing
// that is a plain array becomes a single section. Entries that are not
// recognizable workflows are rendered as YAML.
func workflowListSections(listing any) []listSection {
	switch v := listing.(type) {
	case nil:
		return nil
	case map[string]any:
		return keyedSections(v)
	case []any:
		if len(v) == 0 {
			return nil
		}
		return []listSection{itemSection("Workflows", v)}
	default:
		return []listSection{itemSection("Workflows", []any{v})}
	}
}

func keyedSections(listing map[string]any) []listSection {
	keys := make([]string, 0, len(listing))
	for k := range listing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	caser := cases.Title(language.English)
	var sections []listSection
	for _, k := range keys {
		items, ok := listing[k].([]any)
		if !ok {
			items = []any{listing[k]}
		}
		sections = append(sections, itemSection(caser.String(k), items))
	}
	return sections
}

func itemSection(title string, items []any) listSection {
	section := listSection{Title: title}
	for _, item := range items {
		section.Lines = append(section.Lines, summarize(item))
	}
	return section
}

func summarize(item any) string {
	if s, ok := item.(string); ok {
		return s
	}
	var summary workflowSummary
	if _, isMap := item.(map[string]any); isMap {
		if err := decodeView(item, &summary); err == nil && !summary.empty() {
			return summary.String()
		}
	}
	out, err := yaml.JSONToYAML(mustJSON(item))
	if err != nil {
		return fmt.Sprint(item)
	}
	return string(trimNewline(out))
}

func mustJSON(v any) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return out
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return b
}

func printWorkflowList(listing any) {
	sections := workflowListSections(listing)
	if len(sections) == 0 {
		fmt.Println("No workflows found")
		return
	}
	for _, section := range sections {
		fmt.Printf("%s:\n", section.Title)
		for _, line := range section.Lines {
			fmt.Printf("- %s\n", line)
		}
	}
}

func printDone(format string, args ...any) {
	okLabel.Fprint(os.Stdout, "✓ ")
	fmt.Printf(format+"\n", args...)
}

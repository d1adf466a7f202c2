package leeroo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// StatusPrinter renders the per-node states of a workflow. GetWorkflowStatus calls it
// once per node, in the order the server listed them, when verbose output is requested.
type StatusPrinter interface {
	PrintNodeStatus(node, state string)
}

// StatusPrinterFunc adapts a function to StatusPrinter.
type StatusPrinterFunc func(node, state string)

func (f StatusPrinterFunc) PrintNodeStatus(node, state string) {
	f(node, state)
}

// NopStatusPrinter discards node states.
var NopStatusPrinter StatusPrinter = StatusPrinterFunc(func(string, string) {})

// ColorStatusPrinter writes "node : state" lines, highlighting the "Executed" and
// "running" markers for terminals.
type ColorStatusPrinter struct {
	out      io.Writer
	replacer *strings.Replacer
}

var (
	executedLabel = color.New(color.FgHiGreen)
	runningLabel  = color.New(color.FgHiBlue)
)

// NewColorStatusPrinter returns a printer writing to w, or to stdout when w is nil.
// Colour follows fatih/color's terminal detection.
func NewColorStatusPrinter(w io.Writer) *ColorStatusPrinter {
	if w == nil {
		w = os.Stdout
	}
	return &ColorStatusPrinter{
		out: w,
		replacer: strings.NewReplacer(
			"Executed", executedLabel.Sprint("Executed"),
			"running", runningLabel.Sprint("running"),
		),
	}
}

func (p *ColorStatusPrinter) PrintNodeStatus(node, state string) {
	fmt.Fprintln(p.out, node, ":", p.replacer.Replace(state))
}

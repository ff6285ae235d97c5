package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var functionsBuiltins bool

var functionsCmd = &cobra.Command{
	Use:     "functions",
	Aliases: []string{"fns", "abi"},
	Short:   "List the contract's functions and events",
	Long: `Classify the loaded ABI into reads, writes and events.

Functions whose last input is "bytes token" are token-gated (🔒): the
token from the active SIWE session is filled in automatically.

Examples:
  urwacli functions
  urwacli functions --abi ./artifacts/UnifiedConfidentialToken.json
  urwacli functions --builtins`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if functionsBuiltins {
			t := ui.NewTable([]ui.Column{
				{Title: "ID", Width: 10},
				{Title: "Name", Width: 28},
				{Title: "Description", Width: 60},
			})
			for _, b := range contract.AllBuiltins() {
				t.AddRow(ui.Row{ui.Val(b.ID), b.Name, ui.Meta(b.Description)})
			}
			fmt.Println(t.Render())
			return nil
		}

		iface, err := loadInterface()
		if err != nil {
			return err
		}
		reads, writes := iface.Partition()

		printFunctionTable("Read", reads)
		printFunctionTable("Write", writes)

		if evs := iface.Events(); len(evs) > 0 {
			t := ui.NewTable([]ui.Column{
				{Title: "Event", Width: 28},
				{Title: "Topic", Width: 20},
				{Title: "Inputs", Width: 48},
			})
			for _, ev := range evs {
				t.AddRow(ui.Row{ui.StyleInfo.Render(ev.Name), ui.Meta(shortHex(ev.ID().Hex(), 20)), paramList(ev.Inputs)})
			}
			fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("Events (%d)", len(evs))))
			fmt.Println(t.Render())
		}
		return nil
	},
}

func printFunctionTable(title string, fns []*contract.FunctionDescriptor) {
	if len(fns) == 0 {
		return
	}
	t := ui.NewTable([]ui.Column{
		{Title: "", Width: 2},
		{Title: "Selector", Width: 10},
		{Title: "Function", Width: 24},
		{Title: "Inputs", Width: 44},
		{Title: "Outputs", Width: 24},
	})
	for _, fn := range fns {
		lock := ""
		if fn.RequiresAuthToken() {
			lock = "🔒"
		}
		name := fn.Name
		if fn.IsPayable() {
			name += " (payable)"
		}
		t.AddRow(ui.Row{lock, ui.Meta(fn.Selector()), ui.Val(name), paramList(fn.Inputs), ui.Meta(paramList(fn.Outputs))})
	}
	fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("%s (%d)", title, len(fns))))
	fmt.Println(t.Render())
}

// paramList formats params as "type name, type name".
func paramList(params []contract.ParamSpec) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strings.TrimSpace(p.Type + " " + p.Name)
	}
	return strings.Join(parts, ", ")
}

func init() {
	functionsCmd.Flags().BoolVar(&functionsBuiltins, "builtins", false, "list the built-in interfaces instead")
}

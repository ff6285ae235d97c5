package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/urwacli/internal/console"
	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Browse the contract interactively and call a function",
	Long: `Open a navigator over the loaded ABI. Pick a function, enter its
arguments, and urwacli runs it as a read or a write. Token-gated
functions (🔒) get their token from the session; you are asked to sign
in when none is held.

Keys: ↑/↓ or j/k to move, g/G for first/last, Enter to call, q to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(ctx context.Context, s *session) error {
			name := "uRWA20"
			if abiPath != "" {
				name = abiPath
			}
			for {
				fn, err := ui.RunStudio(ui.NewStudio(s.iface, name, s.target.Network, s.address.Hex(), s.authenticated()))
				if err != nil {
					return err
				}
				if fn == nil {
					return nil
				}
				if err := studioCall(ctx, s, fn); err != nil {
					fmt.Println(errorLine(err))
				}
				if !ui.Confirm("Back to the studio?") {
					return nil
				}
			}
		})
	},
}

// studioCall collects arguments for fn and runs it.
func studioCall(ctx context.Context, s *session, fn *contract.FunctionDescriptor) error {
	fmt.Println(ui.StyleTitle.Render(fn.CanonicalSignature()))

	if fn.RequiresAuthToken() && s.auth != nil {
		if err := s.ensureToken(ctx); err != nil {
			return err
		}
	}

	prompt := ui.StdPrompter()
	values, err := ui.PromptArgs(prompt, fn, s.authenticated())
	if err != nil {
		return err
	}

	if fn.IsRead() {
		outs, err := s.console.Read(ctx, fn.CanonicalSignature(), values)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock(fn.Name, outputPairs(outs)))
		return nil
	}

	if s.signer == nil {
		return console.ErrReadOnly
	}
	var value *big.Int
	if fn.IsPayable() {
		raw, err := prompt.Ask("value ("+s.chain.NativeCurrency+")", "0")
		if err != nil {
			return err
		}
		if value, err = parseValue(raw); err != nil {
			return err
		}
	}
	return sendWrite(ctx, s, fn, values, value, false)
}

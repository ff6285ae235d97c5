package cmd

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var (
	readAuth   bool
	readToken  string
	readYes    bool
	writeValue string
	writeYes   bool
)

var readCmd = &cobra.Command{
	Use:   "read <function> [args...]",
	Short: "Call a view function",
	Long: `Call a view or pure function and print its decoded outputs.

Arguments are given in input order as text: integers in decimal or 0x hex,
addresses with or without 0x, bytes as hex, arrays and tuples as JSON.

Token-gated functions (last input "bytes token") take the token from the
active session. If none is cached and a signing wallet is available, you
are asked to sign in first.

Examples:
  urwacli read totalSupply
  urwacli read balanceOf 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
  urwacli read "balanceOf(address,bytes)" 0xf39F...2266 --token 0x...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := sessionOptions{token: readToken, assumeYes: readYes}
		return withSession(cmd, opts, func(ctx context.Context, s *session) error {
			fn, err := s.iface.Function(args[0])
			if err != nil {
				return err
			}
			if !fn.IsRead() {
				return fmt.Errorf("%s is a write function, use: urwacli write %s", fn.Name, args[0])
			}
			values := args[1:]

			if readAuth || needsLogin(s, fn, values) {
				if err := s.ensureToken(ctx); err != nil {
					return err
				}
			}

			outs, err := s.console.Read(ctx, args[0], values)
			if err != nil {
				return err
			}
			if len(outs) == 0 {
				fmt.Println(ui.Success(fn.Name + " returned no values"))
				return nil
			}
			fmt.Println(ui.KeyValueBlock(fn.CanonicalSignature(), outputPairs(outs)))
			return nil
		})
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <function> [args...]",
	Short: "Send a state-changing transaction",
	Long: `Sign and send a write function with the selected wallet, then wait for
the receipt. Fees are negotiated against the Sapphire minimum gas price.

Examples:
  urwacli write transfer 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 1000000000000000000
  urwacli write mint 0x7099...79C8 5000 --yes
  urwacli write deposit --value 0.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseValue(writeValue)
		if err != nil {
			return err
		}
		opts := sessionOptions{needSigner: true, assumeYes: writeYes}
		return withSession(cmd, opts, func(ctx context.Context, s *session) error {
			fn, err := s.iface.Function(args[0])
			if err != nil {
				return err
			}
			if !fn.IsWrite() {
				return fmt.Errorf("%s is a read function, use: urwacli read %s", fn.Name, args[0])
			}
			if value != nil && value.Sign() > 0 && !fn.IsPayable() {
				return fmt.Errorf("%s is not payable, --value is not allowed", fn.Name)
			}
			values := args[1:]
			if needsLogin(s, fn, values) {
				if err := s.ensureToken(ctx); err != nil {
					return err
				}
			}
			return sendWrite(ctx, s, fn, values, value, writeYes)
		})
	},
}

// sendWrite confirms, sends and waits for a write.
func sendWrite(ctx context.Context, s *session, fn *contract.FunctionDescriptor, values []string, value *big.Int, yes bool) error {
	if !yes {
		pairs := [][2]string{
			{"Function", fn.CanonicalSignature()},
			{"Arguments", strings.Join(values, ", ")},
			{"From", s.signer.Address().Hex()},
			{"Contract", s.address.Hex()},
			{"Network", s.target.Network},
		}
		if value != nil && value.Sign() > 0 {
			pairs = append(pairs, [2]string{"Value", contract.FormatTokenAmount(value, nativeDecimals) + " " + s.chain.NativeCurrency})
		}
		fmt.Println(ui.KeyValueBlock("Confirm transaction", pairs))
		if !ui.Confirm("Send this transaction?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
	defer cancel()

	sp := ui.NewSpinner(fmt.Sprintf("sending %s...", fn.Name))
	sp.Start()
	res, err := s.console.Write(ctx, fn.CanonicalSignature(), values, value)
	sp.Stop()
	printTx(fn.Name, s.chain, res)
	if err != nil {
		return err
	}
	fmt.Println(ui.Success(fn.Name + " confirmed"))
	return nil
}

// needsLogin reports whether fn needs a session token that neither the
// session nor the caller's arguments supply.
func needsLogin(s *session, fn *contract.FunctionDescriptor, values []string) bool {
	if !fn.RequiresAuthToken() || s.authenticated() || s.auth == nil {
		return false
	}
	return len(values) < len(fn.Inputs)
}

func init() {
	readCmd.Flags().BoolVar(&readAuth, "auth", false, "sign in before calling, even if the function is not token-gated")
	readCmd.Flags().StringVar(&readToken, "token", "", "use this session token (hex) instead of signing in")
	readCmd.Flags().BoolVarP(&readYes, "yes", "y", false, "sign the SIWE challenge without asking")

	writeCmd.Flags().StringVar(&writeValue, "value", "", "native amount to attach to payable functions, e.g. 0.5 or 1000wei")
	writeCmd.Flags().BoolVarP(&writeYes, "yes", "y", false, "skip confirmation prompts")
}

package cmd

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/urwacli/internal/auth"
	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/Mohsinsiddi/urwacli/internal/console"
	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/Mohsinsiddi/urwacli/internal/rpc"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/Mohsinsiddi/urwacli/internal/wallet"
)

// nativeDecimals is the precision of ROSE and TEST.
const nativeDecimals = 18

// errorLine renders err for the terminal, with a hint for errors the user
// can fix.
func errorLine(err error) string {
	line := ui.Err(err.Error())
	if hint := errorHint(err); hint != "" {
		line += "\n" + ui.Hint(hint)
	}
	return line
}

func errorHint(err error) string {
	var missing *contract.MissingParameterError
	switch {
	case errors.Is(err, config.ErrMissingContract), errors.Is(err, config.ErrInvalidContract):
		return "Set the contract with: urwacli config set-contract <address>"
	case errors.Is(err, wallet.ErrWalletNotFound), errors.Is(err, console.ErrReadOnly), errors.Is(err, auth.ErrNotConnected):
		return "Add a signing wallet with: urwacli wallet add <name> --key <private-key>"
	case errors.Is(err, auth.ErrSignatureRejected):
		return "The SIWE challenge was not signed; nothing was sent to the contract."
	case errors.Is(err, auth.ErrLoginRejected):
		return "The contract refused the login. Check the origin URI with: urwacli config show"
	case errors.Is(err, rpc.ErrNoHealthyRPC):
		return "No RPC answered. Add one with: urwacli rpc add <url>"
	case errors.Is(err, chain.ErrTxReverted):
		return "The transaction was mined but reverted."
	case errors.As(err, &missing):
		return "Pass every argument in order, or use: urwacli studio"
	}
	return ""
}

// parseValue reads a --value amount. Plain decimals are native units
// ("0.5" is 0.5 ROSE); a "wei" suffix takes the integer as-is.
func parseValue(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if raw, ok := strings.CutSuffix(s, "wei"); ok {
		n, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
		if !ok || n.Sign() < 0 {
			return nil, fmt.Errorf("%w: %q", contract.ErrInvalidAmount, s)
		}
		return n, nil
	}
	return contract.ParseTokenAmount(s, nativeDecimals)
}

// outputPairs lays out read results for ui.KeyValueBlock.
func outputPairs(outs []console.Output) [][2]string {
	pairs := make([][2]string, len(outs))
	for i, o := range outs {
		key := o.Name
		if key == "" {
			key = fmt.Sprintf("[%d]", i)
		}
		if o.Type != "" {
			key += " (" + o.Type + ")"
		}
		pairs[i] = [2]string{key, o.Text}
	}
	return pairs
}

// txPairs summarises a confirmed write.
func txPairs(ch *chain.Chain, res *console.WriteResult) [][2]string {
	hash := res.Tx.Hash().Hex()
	pairs := [][2]string{{"Tx", hash}}
	if r := res.Receipt; r != nil {
		pairs = append(pairs,
			[2]string{"Block", r.BlockNumber.String()},
			[2]string{"Gas used", fmt.Sprintf("%d", r.GasUsed)},
		)
	}
	if ch != nil {
		if u := ch.TxURL(hash); u != "" {
			pairs = append(pairs, [2]string{"Explorer", u})
		}
	}
	return pairs
}

// printTx prints a write result, including a partial one from a failed
// confirmation.
func printTx(title string, ch *chain.Chain, res *console.WriteResult) {
	if res == nil || res.Tx == nil {
		return
	}
	fmt.Println(ui.KeyValueBlock(title, txPairs(ch, res)))
}

// payloadPairs lays out a decrypted transfer record.
func payloadPairs(p *console.DecryptedPayload) [][2]string {
	return [][2]string{
		{"Action", p.Action},
		{"From", p.From.Hex()},
		{"To", p.To.Hex()},
		{"Amount", contract.FormatTokenAmount(p.Amount, nativeDecimals) + " (" + contract.FormatOutput(p.Amount) + ")"},
	}
}

// shortHex cuts long hex for table cells.
func shortHex(s string, n int) string {
	if len(s) <= n || n < 8 {
		return s
	}
	half := (n - 3) / 2
	return s[:half+2] + "..." + s[len(s)-(n-3-half-2):]
}

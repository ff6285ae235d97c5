package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/Mohsinsiddi/urwacli/internal/console"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var decryptYes bool

var decryptCmd = &cobra.Command{
	Use:   "decrypt <payload>",
	Short: "Have the contract decrypt an encrypted event payload",
	Long: `Send the payload to processDecryption, wait for the transaction, then
read the result back with viewLastDecryptedData using the session token.
Only parties to the transfer and authorised auditors get a result.

Examples:
  urwacli decrypt 0xa1b2...        # payload from 'urwacli events'
  urwacli decrypt last             # read the last decrypted record again
  urwacli decrypt clear            # wipe it from the contract`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := sessionOptions{needSigner: true, assumeYes: decryptYes}
		return withSession(cmd, opts, func(ctx context.Context, s *session) error {
			if err := s.ensureToken(ctx); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
			defer cancel()

			sp := ui.NewSpinner("decrypting...")
			sp.Start()
			data, res, err := s.console.Decrypt(ctx, args[0])
			sp.Stop()
			printTx("processDecryption", s.chain, res)
			if err != nil {
				if errors.Is(err, console.ErrNoDecryptedData) {
					fmt.Println(ui.Hint("Only the sender, the recipient or an authorised auditor can decrypt this payload."))
				}
				return err
			}
			fmt.Println(ui.KeyValueBlock("Decrypted", payloadPairs(data)))
			return nil
		})
	},
}

var decryptLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the last decrypted record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := sessionOptions{needSigner: true, assumeYes: decryptYes}
		return withSession(cmd, opts, func(ctx context.Context, s *session) error {
			if err := s.ensureToken(ctx); err != nil {
				return err
			}
			data, err := s.console.LastDecrypted(ctx)
			if err != nil {
				return err
			}
			if data.Empty() {
				fmt.Println(ui.Info("No decrypted record stored."))
				return nil
			}
			fmt.Println(ui.KeyValueBlock("Last decrypted", payloadPairs(data)))
			return nil
		})
	},
}

var decryptClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the last decrypted record from the contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{needSigner: true}, func(ctx context.Context, s *session) error {
			if !decryptYes && !ui.Confirm("Clear the last decrypted record?") {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}

			ctx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
			defer cancel()

			sp := ui.NewSpinner("clearing...")
			sp.Start()
			res, err := s.console.ClearDecrypted(ctx)
			sp.Stop()
			printTx("clearLastDecryptedData", s.chain, res)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Decrypted record cleared."))
			return nil
		})
	},
}

func init() {
	decryptCmd.PersistentFlags().BoolVarP(&decryptYes, "yes", "y", false, "skip confirmation and signing prompts")
	decryptCmd.AddCommand(decryptLastCmd, decryptClearCmd)
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/Mohsinsiddi/urwacli/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	walletKeyFlag   string
	walletUnlockAll bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage signing and watch-only wallets",
	Long: `Manage the wallets urwacli signs with.

Signing wallets keep their private key in the OS keychain and can send
transactions and sign in with SIWE. Watch-only wallets only record an
address.`,
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Long: `Add a signing wallet from a private key, or a watch-only wallet from an address.

Examples:
  urwacli wallet add deployer --key 0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80
  urwacli wallet add auditor 0x70997970C51812dc3A010C7d01b50e0d17dc79C8`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()

		if walletKeyFlag != "" {
			if err := mgr.AddWithKey(name, walletKeyFlag); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
			fmt.Println(ui.Hint("Set as default with: urwacli wallet default " + name))
			return nil
		}

		if len(args) < 2 {
			return errors.New("address required for watch-only wallet\n  Usage: urwacli wallet add <name> <address>\n  Or for signing: urwacli wallet add <name> --key <private-key>")
		}
		address := args[1]
		if !common.IsHexAddress(address) {
			return fmt.Errorf("invalid address %q", address)
		}
		if err := mgr.Add(name, &wallet.Wallet{
			Name:    name,
			Address: common.HexToAddress(address).Hex(),
			Type:    wallet.TypeWatchOnly,
		}); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(address))))
		fmt.Println(ui.Hint("Watch-only wallets can read but cannot sign in or send transactions."))
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new signing wallet",
	Long: `Generate a fresh keypair and store the private key in the OS keychain.

The private key is displayed once. Re-export it later with:
  urwacli wallet export <name>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		w, hexKey, err := newWalletManager().Generate(name)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("  %s  %s\n", ui.Meta("Wallet :"), ui.Val(w.Name))
		fmt.Printf("  %s  %s\n\n", ui.Meta("Address:"), ui.Addr(w.Address))
		fmt.Println(ui.DangerBox(
			ui.Warn("SAVE YOUR PRIVATE KEY. It is shown only once.") + "\n\n" +
				ui.Val(hexKey) + "\n\n" +
				ui.Hint("Store it in a password manager."),
		))
		fmt.Println(ui.Hint("Fund it with TEST from the Sapphire faucet before sending transactions."))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wallets := newWalletManager().List()
		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: urwacli wallet add <name> --key <private-key>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Unlocked", Width: 9},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			def, unlocked := "", ""
			if w.IsDefault {
				def = ui.StyleSuccess.Render("✓")
			}
			if w.Type == wallet.TypeSigning && wallet.IsUnlocked(w.Name) {
				unlocked = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{
				ui.Val(w.Name),
				ui.Addr(w.Address),
				ui.Meta(walletTypeLabel(w.Type)),
				unlocked,
				def,
			})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !ui.ConfirmDanger(fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := newWalletManager().Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletDefaultCmd = &cobra.Command{
	Use:     "default <name>",
	Aliases: []string{"use"},
	Short:   "Set the default wallet",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := newWalletManager().SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Println(ui.Hint("Used for signing whenever --wallet is not given."))
		return nil
	},
}

var walletExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Show the private key of a signing wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		fmt.Println(ui.Warn("You are about to reveal a private key."))
		input, err := ui.StdPrompter().Ask(fmt.Sprintf("Type wallet name %q to confirm", name), "")
		if err != nil {
			return err
		}
		if input != name {
			fmt.Println(ui.Err("Name mismatch, export cancelled."))
			return nil
		}

		hexKey, err := newWalletManager().ExportKey(name)
		if err != nil {
			return err
		}
		fmt.Println(ui.DangerBox(ui.Warn("PRIVATE KEY. Do not share it.") + "\n\n" + ui.Val(hexKey)))
		return nil
	},
}

var walletUnlockCmd = &cobra.Command{
	Use:   "unlock [name]",
	Short: "Cache wallet keys for this session",
	Long: `Read private keys from the OS keychain once and cache them in a
restricted session file, so later writes and logins run without keychain
prompts.

Examples:
  urwacli wallet unlock            # pick a wallet
  urwacli wallet unlock deployer
  urwacli wallet unlock --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()

		var signing []*wallet.Wallet
		for _, w := range mgr.List() {
			if w.Type == wallet.TypeSigning {
				signing = append(signing, w)
			}
		}
		if len(signing) == 0 {
			fmt.Println(ui.Info("No signing wallets found."))
			fmt.Println(ui.Hint("Add one with: urwacli wallet add <name> --key <private-key>"))
			return nil
		}

		var names []string
		switch {
		case walletUnlockAll:
			for _, w := range signing {
				names = append(names, w.Name)
			}
		case len(args) > 0:
			names = args
		default:
			items := make([]ui.PickerItem, len(signing))
			for i, w := range signing {
				sub := ui.TruncateAddr(w.Address)
				if wallet.IsUnlocked(w.Name) {
					sub += "  [cached]"
				}
				items[i] = ui.PickerItem{Label: w.Name, SubLabel: sub, Value: w.Name}
			}
			picked, err := ui.PickItem("Unlock wallet", items)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
			names = []string{picked}
		}

		fmt.Println(ui.Info("Your OS keychain may prompt once per wallet."))
		var unlocked int
		for _, name := range names {
			if err := mgr.Unlock(name); err != nil {
				fmt.Println(ui.Err(fmt.Sprintf("%-20s %v", name, err)))
				continue
			}
			fmt.Println(ui.Success(fmt.Sprintf("%-20s unlocked", name)))
			unlocked++
		}
		if unlocked > 0 {
			fmt.Println(ui.Hint("Clear the cache with: urwacli wallet lock"))
		}
		return nil
	},
}

var walletLockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Clear the session key cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wallet.SessionActive() {
			fmt.Println(ui.Meta("No active session, nothing to clear."))
			return nil
		}
		if err := wallet.ClearSession(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println(ui.Success("Session cleared. The keychain will be used on next access."))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for a signing wallet (stored in the OS keychain)")
	walletUnlockCmd.Flags().BoolVar(&walletUnlockAll, "all", false, "unlock every signing wallet")
	walletCmd.AddCommand(walletAddCmd, walletGenerateCmd, walletListCmd, walletRemoveCmd,
		walletDefaultCmd, walletExportCmd, walletUnlockCmd, walletLockCmd)
}

// walletTypeLabel converts an internal wallet type to a user-facing label.
func walletTypeLabel(t string) string {
	if t == wallet.TypeSigning {
		return "read-write"
	}
	return t
}

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
}

// walletName returns --wallet, falling back to the configured default.
func walletName() string {
	if walletFlag != "" {
		return walletFlag
	}
	return cfg.DefaultWallet
}

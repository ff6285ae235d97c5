package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long:  "Pick a network, an RPC selection algorithm and the uRWA20 contract address, then save them to config.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner())

		reg := chain.NewRegistry()
		names := make([]string, 0, len(reg.All()))
		for _, c := range reg.All() {
			names = append(names, c.Name)
		}

		result, err := ui.RunWizard(ui.NewWizard(names, config.ValidateContract))
		if err != nil {
			return err
		}
		if result.Cancelled {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		cfg.SelectedNetwork = result.Network
		cfg.RPCAlgorithm = result.RPCAlgorithm
		if result.ContractAddress != "" {
			if err := cfg.SetContract(result.Network, result.ContractAddress); err != nil {
				return err
			}
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("urwacli configured for %s.", ui.ChainName(result.Network))))
		if len(newWalletManager().List()) == 0 {
			fmt.Println(ui.Hint("Next, add a signing wallet: urwacli wallet add <name> --key <private-key>"))
		} else {
			fmt.Println(ui.Hint("Next, sign in: urwacli login"))
		}
		return nil
	},
}

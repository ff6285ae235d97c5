package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "List and select Sapphire networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "", Width: 2},
			{Title: "Name", Width: 10},
			{Title: "Display", Width: 18},
			{Title: "Chain ID", Width: 9},
			{Title: "Currency", Width: 8},
			{Title: "Contract", Width: 14},
			{Title: "Env override", Width: 32},
		})

		for _, c := range reg.All() {
			cur := ""
			if c.Name == selectedNetwork() {
				cur = ui.StyleSuccess.Render("▸")
			}
			contractAddr := ui.Meta("not set")
			if a := cfg.ContractAddress(&c); a != "" {
				contractAddr = ui.TruncateAddr(a)
			}
			t.AddRow(ui.Row{
				cur,
				ui.ChainName(c.Name),
				c.DisplayName,
				fmt.Sprintf("%d", c.ChainID),
				c.NativeCurrency,
				contractAddr,
				ui.Meta(c.ContractEnv),
			})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use [network]",
	Short: "Select the network used by every command",
	Long: `Persist the selected network. Without an argument a picker is shown.

Examples:
  urwacli network use testnet
  urwacli network use`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			items := make([]ui.PickerItem, 0, len(reg.All()))
			for _, c := range reg.All() {
				items = append(items, ui.PickerItem{
					Label:    c.Name,
					SubLabel: fmt.Sprintf("%s · chain %d", c.DisplayName, c.ChainID),
					Value:    c.Name,
					Current:  c.Name == cfg.SelectedNetwork,
				})
			}
			picked, err := ui.PickItem("Select network", items)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
			name = picked
		}

		ch, err := reg.GetByName(name)
		if err != nil {
			return fmt.Errorf("unknown network %q, see `urwacli network list`", name)
		}
		cfg.SelectedNetwork = ch.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network set to %s (chain %d)", ui.ChainName(ch.Name), ch.ChainID)))
		if cfg.ContractAddress(ch) == "" {
			fmt.Println(ui.Hint("No contract configured yet: urwacli config set-contract <address>"))
		}
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}

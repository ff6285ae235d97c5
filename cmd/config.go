package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/rpc"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Show and edit ~/.urwacli/config.json.

The directory can be moved with --config or $URWACLI_CONFIG_DIR.`,
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show the current configuration",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configJSON {
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		wallet := cfg.DefaultWallet
		if wallet == "" {
			wallet = "(none)"
		}
		fmt.Println(ui.KeyValueBlock("Configuration", [][2]string{
			{"Network", cfg.SelectedNetwork},
			{"Default wallet", wallet},
			{"RPC algorithm", cfg.RPCAlgorithm},
			{"Origin URI", cfg.OriginURI},
			{"Log level", cfg.LogLevel},
			{"Directory", cfg.Dir()},
		}))

		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "Network", Width: 10},
			{Title: "Contract", Width: 44},
			{Title: "Custom RPCs", Width: 40},
		})
		for _, c := range reg.All() {
			contractAddr := cfg.ContractAddress(&c)
			if contractAddr == "" {
				contractAddr = ui.Meta("not set")
			} else {
				contractAddr = ui.Addr(contractAddr)
			}
			rpcs := cfg.GetRPCs(c.Name)
			custom := ui.Meta("-")
			if len(rpcs) > 0 {
				custom = fmt.Sprintf("%s (+%d)", rpcs[0], len(rpcs)-1)
				if len(rpcs) == 1 {
					custom = rpcs[0]
				}
			}
			t.AddRow(ui.Row{ui.ChainName(c.Name), contractAddr, custom})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var configSetContractCmd = &cobra.Command{
	Use:   "set-contract <address>",
	Short: "Set the uRWA20 contract address for the selected network",
	Long: `Record the uRWA20 contract address for the selected network.

The network's environment variable (URWA20_CONTRACT_ADDRESS on localnet)
still wins over the file.

Examples:
  urwacli config set-contract 0x5FbDB2315678afecb367f032d93F642f64180aa3
  urwacli config set-contract 0x5FbD...0aa3 --network testnet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := selectedChain()
		if err != nil {
			return err
		}
		if err := cfg.SetContract(ch.Name, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Contract for %s set to %s", ui.ChainName(ch.Name), ui.Addr(args[0]))))
		return nil
	},
}

var configSetOriginCmd = &cobra.Command{
	Use:   "set-origin <uri>",
	Short: "Set the URI placed in SIWE challenges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prev := cfg.OriginURI
		cfg.OriginURI = args[0]
		if err := cfg.Save(); err != nil {
			cfg.OriginURI = prev
			return err
		}
		fmt.Println(ui.Success("Origin URI set to " + args[0]))
		fmt.Println(ui.Hint("Sign in again so the contract sees the new URI: urwacli login"))
		return nil
	},
}

var configSetAlgorithmCmd = &cobra.Command{
	Use:       "set-rpc-algorithm <fastest|round-robin|failover>",
	Short:     "Set how an RPC endpoint is chosen",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(rpc.AlgorithmFastest), string(rpc.AlgorithmRoundRobin), string(rpc.AlgorithmFailover)},
	RunE: func(cmd *cobra.Command, args []string) error {
		algo, err := rpc.ParseAlgorithm(args[0])
		if err != nil {
			return err
		}
		cfg.RPCAlgorithm = string(algo)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("RPC algorithm set to " + string(algo)))
		return nil
	},
}

var configSetLogLevelCmd = &cobra.Command{
	Use:   "set-log-level <debug|info|warn|error>",
	Short: "Set the log level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prev := cfg.LogLevel
		cfg.LogLevel = args[0]
		if err := cfg.Save(); err != nil {
			cfg.LogLevel = prev
			return err
		}
		fmt.Println(ui.Success("Log level set to " + args[0]))
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "print the raw config JSON")
	configCmd.AddCommand(configShowCmd, configSetContractCmd, configSetOriginCmd,
		configSetAlgorithmCmd, configSetLogLevelCmd)
}

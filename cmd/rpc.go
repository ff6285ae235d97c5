package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/Mohsinsiddi/urwacli/internal/rpc"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var rpcSkipCheck bool

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Manage RPC endpoints for the selected network",
}

var rpcAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a custom RPC URL",
	Long: `Add a custom RPC URL for the selected network. Custom URLs are tried
before the built-in ones. The URL is probed first and a warning is printed
when it is down or serves another chain.

Examples:
  urwacli rpc add http://127.0.0.1:9545
  urwacli rpc add https://my-node.example --network testnet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := selectedChain()
		if err != nil {
			return err
		}
		if !rpcSkipCheck {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sp := ui.NewSpinner("checking " + args[0] + "...")
			sp.Start()
			ep, err := rpc.HealthCheck(ctx, args[0], ch.ChainID, 0)
			sp.Stop()
			if err != nil || !ep.Healthy {
				reason := "unhealthy"
				if err != nil {
					reason = err.Error()
				}
				fmt.Println(ui.Warn(fmt.Sprintf("%s did not pass the health check: %s", args[0], reason)))
			} else {
				fmt.Println(ui.Meta(fmt.Sprintf("block %d in %s", ep.BlockNumber, ep.Latency.Round(time.Millisecond))))
			}
		}
		if err := cfg.AddRPC(ch.Name, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Added RPC for %s: %s", ui.ChainName(ch.Name), args[0])))
		return nil
	},
}

var rpcRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Remove a custom RPC URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := selectedChain()
		if err != nil {
			return err
		}
		if err := cfg.RemoveRPC(ch.Name, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed RPC for %s: %s", ui.ChainName(ch.Name), args[0])))
		return nil
	},
}

var rpcListCmd = &cobra.Command{
	Use:   "list",
	Short: "List RPC URLs in the order they are considered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := selectedChain()
		if err != nil {
			return err
		}
		custom := cfg.GetRPCs(ch.Name)

		fmt.Println(ui.StyleTitle.Render("RPCs for " + ch.DisplayName))
		for _, u := range rpcURLs(ch.Name, ch.RPCs) {
			origin := ui.Meta("(built-in)")
			if slices.Contains(custom, u) {
				origin = ui.Meta("(custom)")
			}
			fmt.Printf("  %s %s\n", u, origin)
		}
		fmt.Println(ui.Meta("Algorithm: " + cfg.RPCAlgorithm))
		return nil
	},
}

var rpcBenchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark every RPC for the selected network",
	Long: `Ping every RPC URL in parallel, verify it serves the expected chain ID,
and mark the endpoint the configured algorithm would pick.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := selectedChain()
		if err != nil {
			return err
		}
		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}
		urls := rpcURLs(ch.Name, ch.RPCs)

		fmt.Println(ui.StyleTitle.Render(fmt.Sprintf("Benchmarking %s RPCs...", ch.DisplayName)))

		ctx, cancel := context.WithTimeout(context.Background(), config.RPCSelectTimeout)
		defer cancel()

		sp := ui.NewSpinner("probing endpoints...")
		sp.Start()
		results := rpc.Benchmark(ctx, urls, ch.ChainID)
		sp.Stop()

		endpoints := rpc.ResultsToEndpoints(results)
		pick := ""
		if winner, err := rpc.NewPicker(algo).Pick(endpoints); err == nil {
			pick = winner.URL
		}

		t := ui.NewTable([]ui.Column{
			{Title: "RPC URL", Width: 40},
			{Title: "Latency", Width: 10},
			{Title: "Block #", Width: 12},
			{Title: "Status", Width: 14},
		})
		for _, r := range results {
			status := ui.StyleSuccess.Render("healthy")
			latency := fmt.Sprintf("%dms", r.Latency.Milliseconds())
			block := fmt.Sprintf("%d", r.BlockNumber)
			if r.Err != nil {
				status = ui.StyleError.Render(r.Err.Error())
				latency, block = "-", "-"
			}
			if r.URL == pick {
				status = ui.StyleSelected.Render("▸ selected")
			}
			t.AddRow(ui.Row{r.URL, latency, block, status})
		}
		fmt.Println(t.Render())
		if pick == "" {
			return rpc.ErrNoHealthyRPC
		}
		return nil
	},
}

func init() {
	rpcAddCmd.Flags().BoolVar(&rpcSkipCheck, "skip-check", false, "save the URL without probing it")
	rpcCmd.AddCommand(rpcAddCmd, rpcRemoveCmd, rpcListCmd, rpcBenchmarkCmd)
}

// rpcURLs lists custom URLs first, then the built-ins, without duplicates.
func rpcURLs(network string, builtin []string) []string {
	urls := slices.Clone(cfg.GetRPCs(network))
	for _, u := range builtin {
		if !slices.Contains(urls, u) {
			urls = append(urls, u)
		}
	}
	return urls
}

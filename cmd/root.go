package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/Mohsinsiddi/urwacli/internal/logger"
	"github.com/Mohsinsiddi/urwacli/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/urwacli/cmd.Version=1.2.3" .
var Version = "0.3.0"

var (
	cfgDir      string
	cfg         *config.Config
	verbose     bool
	networkFlag string
	walletFlag  string
	abiPath     string
	metricsAddr string

	log      logger.Logger    = logger.NoopLogger{}
	recorder metrics.Recorder = metrics.NoopRecorder{}

	metricsServer *http.Server
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "urwacli",
	Short: "Console for the confidential uRWA20 token on Oasis Sapphire",
	Long: `urwacli drives a confidential uRWA20 contract on Oasis Sapphire.

  Browse the contract's functions, call reads and writes, sign in with
  SIWE to unlock token-gated views, decrypt encrypted events and manage
  auditor permissions.

The contract interface is loaded at runtime: the built-in uRWA20 ABI is
used unless --abi points at a raw ABI or a Hardhat/Foundry artifact.
Select the target with --network or persist it with: urwacli network use <name>`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log = logger.NewZapLogger(level)

		if metricsAddr != "" {
			if err := startMetrics(metricsAddr); err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		shutdown()
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// startMetrics registers the Prometheus recorder and serves /metrics on addr
// for the lifetime of the command.
func startMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	recorder = metrics.NewPrometheusRecorder(reg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", map[string]any{"error": err.Error()})
		}
	}()
	log.Info("serving metrics", map[string]any{"addr": ln.Addr().String()})
	return nil
}

func shutdown() {
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(ctx)
		metricsServer = nil
	}
	if z, ok := log.(*logger.ZapLogger); ok {
		_ = z.Sync()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $URWACLI_CONFIG_DIR or ~/.urwacli)")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network to use (default: selected_network from config)")
	rootCmd.PersistentFlags().StringVarP(&walletFlag, "wallet", "w", "", "signing wallet (default: the default wallet)")
	rootCmd.PersistentFlags().StringVar(&abiPath, "abi", "", "ABI JSON or Hardhat/Foundry artifact (default: built-in uRWA20)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		initCmd,
		configCmd,
		networkCmd,
		walletCmd,
		rpcCmd,
		functionsCmd,
		readCmd,
		writeCmd,
		studioCmd,
		loginCmd,
		logoutCmd,
		eventsCmd,
		historyCmd,
		decryptCmd,
		auditorCmd,
	)
}

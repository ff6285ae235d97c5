package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/auth"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var (
	loginYes       bool
	loginShowToken bool
	loginTTL       time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the contract with SIWE",
	Long: `Fetch the contract's SIWE domain, sign a fresh challenge with the
selected wallet and exchange it for a session token. The token is cached
in the config directory until the challenge expires, so later reads and
decrypts reuse it.

Examples:
  urwacli login
  urwacli login --wallet auditor --yes
  urwacli login --ttl 15m`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginTTL <= 0 {
			return fmt.Errorf("--ttl must be positive, got %s", loginTTL)
		}
		opts := sessionOptions{needSigner: true, assumeYes: loginYes, ttl: loginTTL}
		return withSession(cmd, opts, func(ctx context.Context, s *session) error {
			token, err := s.login(ctx)
			if err != nil {
				return err
			}
			snap := s.auth.Snapshot()
			pairs := [][2]string{
				{"Account", s.signer.Address().Hex()},
				{"Domain", snap.Domain},
				{"Network", s.target.Network},
				{"State", snap.State.String()},
				{"Expires", time.Now().Add(s.ttl).UTC().Format(time.RFC3339)},
			}
			if loginShowToken {
				pairs = append(pairs, [2]string{"Token", token})
			} else {
				pairs = append(pairs, [2]string{"Token", shortHex(token, 20)})
			}
			fmt.Println(ui.KeyValueBlock("Signed in", pairs))
			fmt.Println(ui.Hint("Token-gated reads now work, e.g.: urwacli read balanceOf " + s.signer.Address().Hex()))
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newWalletManager().Signer(walletName())
		if err != nil {
			return err
		}
		network := selectedNetwork()
		store := auth.NewTokenStore(filepath.Join(cfg.Dir(), sessionsFile))
		if err := store.Delete(auth.TokenKey(network, signer.Address())); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Signed %s out of %s", ui.TruncateAddr(signer.Address().Hex()), network)))
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVarP(&loginYes, "yes", "y", false, "sign the challenge without asking")
	loginCmd.Flags().BoolVar(&loginShowToken, "show-token", false, "print the full session token")
	loginCmd.Flags().DurationVar(&loginTTL, "ttl", auth.DefaultTTL, "how long the signed challenge and cached token stay valid")
}

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/Mohsinsiddi/urwacli/internal/console"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/spf13/cobra"
)

var (
	auditorDuration time.Duration
	auditorFull     bool
	auditorAllow    []string
	auditorYes      bool
)

var auditorCmd = &cobra.Command{
	Use:   "auditor",
	Short: "Grant, revoke and inspect auditor permissions",
	Long: `Auditors may decrypt the transfers of the addresses they are granted,
or of every address with full access, until their grant expires.`,
}

var auditorGrantCmd = &cobra.Command{
	Use:   "grant <auditor>",
	Short: "Grant an auditor permission",
	Long: `Grant an auditor permission for --duration.

Examples:
  urwacli auditor grant 0x7099...79C8 --duration 720h --full
  urwacli auditor grant 0x7099...79C8 --duration 24h --allow 0xf39F...2266,0x3C44...93BC`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !auditorFull && len(auditorAllow) == 0 {
			return fmt.Errorf("pass --full or at least one --allow address")
		}
		return withSession(cmd, sessionOptions{needSigner: true}, func(ctx context.Context, s *session) error {
			scope := "full access"
			if !auditorFull {
				scope = strings.Join(auditorAllow, ", ")
			}
			if !auditorYes {
				fmt.Println(ui.KeyValueBlock("Grant auditor", [][2]string{
					{"Auditor", args[0]},
					{"Duration", auditorDuration.String()},
					{"Expires", time.Now().Add(auditorDuration).UTC().Format(time.RFC3339)},
					{"Scope", scope},
				}))
				if !ui.Confirm("Grant this permission?") {
					fmt.Println(ui.Meta("Cancelled."))
					return nil
				}
			}

			ctx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
			defer cancel()

			sp := ui.NewSpinner("granting...")
			sp.Start()
			res, err := s.console.GrantAuditor(ctx, args[0], auditorDuration, auditorFull, auditorAllow)
			sp.Stop()
			printTx("grantAuditorPermission", s.chain, res)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Auditor permission granted."))
			return nil
		})
	},
}

var auditorRevokeCmd = &cobra.Command{
	Use:   "revoke <auditor>",
	Short: "Revoke an auditor's permission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{needSigner: true}, func(ctx context.Context, s *session) error {
			if !auditorYes && !ui.ConfirmDanger(fmt.Sprintf("Revoke auditor %s?", args[0])) {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}

			ctx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
			defer cancel()

			sp := ui.NewSpinner("revoking...")
			sp.Start()
			res, err := s.console.RevokeAuditor(ctx, args[0])
			sp.Stop()
			printTx("revokeAuditorPermission", s.chain, res)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Auditor permission revoked."))
			return nil
		})
	},
}

var auditorCheckCmd = &cobra.Command{
	Use:   "check <auditor> <target>",
	Short: "Check whether an auditor may decrypt a target's transfers",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(ctx context.Context, s *session) error {
			ok, err := s.console.CheckAuditor(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if ok {
				fmt.Println(ui.Success(fmt.Sprintf("%s may audit %s", ui.TruncateAddr(args[0]), ui.TruncateAddr(args[1]))))
			} else {
				fmt.Println(ui.Warn(fmt.Sprintf("%s may not audit %s", ui.TruncateAddr(args[0]), ui.TruncateAddr(args[1]))))
			}
			return nil
		})
	},
}

var auditorShowCmd = &cobra.Command{
	Use:   "show <auditor>",
	Short: "Show an auditor's grant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(ctx context.Context, s *session) error {
			p, err := s.console.AuditorPermissions(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(ui.KeyValueBlock("Auditor "+args[0], permissionPairs(p, time.Now())))
			return nil
		})
	},
}

// permissionPairs describes a grant as seen at now.
func permissionPairs(p *console.AuditorPermission, now time.Time) [][2]string {
	if p.Expiry.IsZero() {
		return [][2]string{{"Status", "no permission"}}
	}
	status := "active"
	left := p.Expiry.Sub(now).Round(time.Second).String() + " left"
	if !p.Active(now) {
		status = "expired"
		left = "expired " + now.Sub(p.Expiry).Round(time.Second).String() + " ago"
	}
	access := "restricted"
	if p.FullAccess {
		access = "full"
	}
	return [][2]string{
		{"Status", status},
		{"Access", access},
		{"Expires", p.Expiry.UTC().Format(time.RFC3339)},
		{"Remaining", left},
	}
}

func init() {
	auditorGrantCmd.Flags().DurationVar(&auditorDuration, "duration", 24*time.Hour, "how long the grant lasts, e.g. 24h or 720h")
	auditorGrantCmd.Flags().BoolVar(&auditorFull, "full", false, "allow decrypting every address")
	auditorGrantCmd.Flags().StringSliceVar(&auditorAllow, "allow", nil, "addresses the auditor may decrypt (repeat or comma-separate)")
	auditorCmd.PersistentFlags().BoolVarP(&auditorYes, "yes", "y", false, "skip confirmation prompts")
	auditorCmd.AddCommand(auditorGrantCmd, auditorRevokeCmd, auditorCheckCmd, auditorShowCmd)
}

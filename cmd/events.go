package cmd

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/events"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var (
	eventsFrom     string
	eventsKind     string
	eventsFollow   bool
	eventsInterval time.Duration
	eventsLimit    int

	historyFrom    string
	historyAddress string
	historyLimit   int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List encrypted events emitted by the contract",
	Long: `Scan the contract's logs for EncryptedTransfer, EncryptedApproval,
EncryptedForcedTransfer, EncryptedFrozen and EncryptedWhitelisted events and
print their encrypted payloads, newest first. Without --from the last 1000 blocks
are scanned.

Pass a payload to 'urwacli decrypt' to have the contract decrypt it.

Examples:
  urwacli events
  urwacli events --from 120000 --kind EncryptedTransfer
  urwacli events --follow --interval 3s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseBlock(eventsFrom)
		if err != nil {
			return err
		}
		if eventsKind != "" && !slices.Contains(events.Kinds, eventsKind) {
			return fmt.Errorf("unknown event kind %q, expected one of %s", eventsKind, strings.Join(events.Kinds, ", "))
		}
		return withSession(cmd, sessionOptions{}, func(ctx context.Context, s *session) error {
			if eventsFollow {
				cur := &eventCursor{from: from, kind: eventsKind}
				title := fmt.Sprintf("Encrypted events · %s · %s", s.target.Network, ui.TruncateAddr(s.address.Hex()))
				return ui.RunFeed(ui.NewFeed(title, eventsInterval, func() ([]ui.FeedRow, error) {
					evs, err := s.scanner.Scan(ctx, cur.from)
					if err != nil {
						return nil, err
					}
					return feedRows(cur.advance(evs)), nil
				}))
			}

			sp := ui.NewSpinner("scanning logs...")
			sp.Start()
			evs, err := s.scanner.Scan(ctx, from)
			sp.Stop()
			if err != nil {
				return err
			}
			evs = filterKind(evs, eventsKind)
			if len(evs) == 0 {
				fmt.Println(ui.Info("No encrypted events found."))
				return nil
			}
			if eventsLimit > 0 && len(evs) > eventsLimit {
				evs = evs[:eventsLimit]
			}

			t := ui.NewTable([]ui.Column{
				{Title: "Block", Width: 10},
				{Title: "Event", Width: 24},
				{Title: "Tx", Width: 20},
				{Title: "Payload", Width: 42},
			})
			for _, e := range evs {
				t.AddRow(ui.Row{
					strconv.FormatUint(e.BlockNumber, 10),
					ui.StyleInfo.Render(e.Kind),
					ui.Meta(shortHex(e.TxHash.Hex(), 20)),
					shortHex(hexutil.Encode(e.Payload), 42),
				})
			}
			fmt.Println(t.Render())
			fmt.Println(ui.Meta(fmt.Sprintf("%d event(s)", len(evs))))
			fmt.Println(ui.Hint("Decrypt one with: urwacli decrypt <payload>"))
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List transactions that touched the contract",
	Long: `List one row per transaction that emitted a contract event, newest
first. With --address only transactions whose event topics mention that
address are shown.

Examples:
  urwacli history
  urwacli history --address 0x70997970C51812dc3A010C7d01b50e0d17dc79C8`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseBlock(historyFrom)
		if err != nil {
			return err
		}
		return withSession(cmd, sessionOptions{}, func(ctx context.Context, s *session) error {
			entries, err := s.scanner.History(ctx, from, historyAddress)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(ui.Info("No transactions found."))
				return nil
			}
			if historyLimit > 0 && len(entries) > historyLimit {
				entries = entries[:historyLimit]
			}

			t := ui.NewTable([]ui.Column{
				{Title: "Block", Width: 10},
				{Title: "Event", Width: 24},
				{Title: "Tx", Width: 66},
				{Title: "Payload", Width: 8},
			})
			for _, e := range entries {
				enc := ""
				if e.Payload != nil {
					enc = ui.StyleAuth.Render("yes")
				}
				t.AddRow(ui.Row{
					strconv.FormatUint(e.BlockNumber, 10),
					e.EventName,
					ui.Meta(e.TxHash.Hex()),
					enc,
				})
			}
			fmt.Println(t.Render())
			if u := s.chain.TxURL(entries[0].TxHash.Hex()); u != "" {
				fmt.Println(ui.Hint("Latest on the explorer: " + u))
			}
			return nil
		})
	},
}

// eventCursor tracks where the live feed resumes.
type eventCursor struct {
	from *big.Int
	kind string
}

// advance filters evs to the cursor's kind and moves the cursor past the
// newest block seen.
func (c *eventCursor) advance(evs []events.Event) []events.Event {
	var newest uint64
	for _, e := range evs {
		newest = max(newest, e.BlockNumber)
	}
	if len(evs) > 0 {
		c.from = new(big.Int).SetUint64(newest + 1)
	}
	return filterKind(evs, c.kind)
}

func filterKind(evs []events.Event, kind string) []events.Event {
	if kind == "" {
		return evs
	}
	out := evs[:0:0]
	for _, e := range evs {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func feedRows(evs []events.Event) []ui.FeedRow {
	rows := make([]ui.FeedRow, len(evs))
	for i, e := range evs {
		rows[i] = ui.FeedRow{
			Block:   e.BlockNumber,
			Kind:    e.Kind,
			TxHash:  e.TxHash.Hex(),
			Payload: hexutil.Encode(e.Payload),
		}
	}
	return rows
}

// parseBlock reads a --from block number; empty means the default window.
func parseBlock(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid block number %q", s)
	}
	return n, nil
}

func init() {
	eventsCmd.Flags().StringVar(&eventsFrom, "from", "", "first block to scan (default: the last 1000 blocks)")
	eventsCmd.Flags().StringVar(&eventsKind, "kind", "", "only show this event, e.g. EncryptedTransfer")
	eventsCmd.Flags().BoolVarP(&eventsFollow, "follow", "f", false, "keep polling and show new events live")
	eventsCmd.Flags().DurationVar(&eventsInterval, "interval", 5*time.Second, "poll interval with --follow")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum rows to print (0 for all)")

	historyCmd.Flags().StringVar(&historyFrom, "from", "", "first block to scan (default: the last 1000 blocks)")
	historyCmd.Flags().StringVar(&historyAddress, "address", "", "only transactions involving this address")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum rows to print (0 for all)")
}

package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// feedLimit caps how many rows the live feed keeps.
const feedLimit = 200

// FeedRow is one decoded event in the live feed.
type FeedRow struct {
	Block   uint64
	Kind    string
	TxHash  string
	Payload string
}

// FeedModel is the Bubble Tea model for `events --follow`. Each tick calls
// fetch, which returns only events it has not returned before. A tick that
// lands while the previous fetch is still running is skipped, so fetch never
// runs concurrently with itself.
type FeedModel struct {
	title      string
	rows       []FeedRow
	lastUpdate time.Time
	interval   time.Duration
	fetch      func() ([]FeedRow, error)
	fetching   bool
	err        string
	quitting   bool
}

type feedTickMsg time.Time
type feedRowsMsg []FeedRow
type feedErrMsg string

// NewFeed creates the live event feed model.
func NewFeed(title string, interval time.Duration, fetch func() ([]FeedRow, error)) FeedModel {
	// Init starts the first fetch.
	return FeedModel{title: title, interval: interval, fetch: fetch, fetching: true}
}

// RunFeed runs the feed until the user quits.
func RunFeed(m FeedModel) error {
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	return nil
}

func (m FeedModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), feedTick(m.interval))
}

func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s := msg.String(); s == "q" || s == "ctrl+c" || s == "esc" {
			m.quitting = true
			return m, tea.Quit
		}

	case feedTickMsg:
		if m.fetching {
			return m, feedTick(m.interval)
		}
		m.fetching = true
		return m, tea.Batch(m.fetchCmd(), feedTick(m.interval))

	case feedRowsMsg:
		m.fetching = false
		// newest first
		fresh := make([]FeedRow, 0, len(msg)+len(m.rows))
		fresh = append(fresh, msg...)
		fresh = append(fresh, m.rows...)
		if len(fresh) > feedLimit {
			fresh = fresh[:feedLimit]
		}
		m.rows = fresh
		m.lastUpdate = time.Now()
		m.err = ""

	case feedErrMsg:
		m.fetching = false
		m.err = string(msg)
	}

	return m, nil
}

func (m FeedModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(m.title) + "\n")
	updated := "waiting for first poll"
	if !m.lastUpdate.IsZero() {
		updated = "updated " + m.lastUpdate.Format("15:04:05")
	}
	sb.WriteString(StyleMeta.Render(fmt.Sprintf("%s · every %s · q to quit", updated, m.interval)) + "\n\n")

	if m.err != "" {
		sb.WriteString(Err(trimErr(m.err)) + "\n")
	}

	if len(m.rows) == 0 {
		sb.WriteString(StyleMeta.Render("No encrypted events yet.") + "\n")
		return sb.String()
	}

	t := NewTable([]Column{
		{Title: "Block", Width: 10},
		{Title: "Event", Width: 28},
		{Title: "Tx", Width: 14},
		{Title: "Payload", Width: 24},
	})
	for _, r := range m.rows {
		t.AddRow(Row{
			fmt.Sprintf("%d", r.Block),
			r.Kind,
			TruncateAddr(r.TxHash),
			TruncateAddr(r.Payload),
		})
	}
	sb.WriteString(t.Render())
	return sb.String()
}

func (m FeedModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.fetch()
		if err != nil {
			return feedErrMsg(err.Error())
		}
		return feedRowsMsg(rows)
	}
}

func feedTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedTickMsg(t)
	})
}

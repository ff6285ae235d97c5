// Package ui holds the terminal rendering for urwacli: lipgloss styles,
// tables, prompts and the bubbletea models behind studio, init and the
// live event feed.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Version is the version shown in the banner.
const Version = "0.3.0"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: confirmed, authenticated
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: writes, pending
	ColorError     = lipgloss.Color("#FF4444") // red: errors, reverts
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF")
	ColorMeta      = lipgloss.Color("#555555") // dim gray: metadata
	ColorBorder    = lipgloss.Color("#1E3A5F")
	ColorChain     = lipgloss.Color("#0092F6") // Oasis blue: network names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: selected rows
	ColorInfo      = lipgloss.Color("#7AA2F7")
	ColorAuth      = lipgloss.Color("#C792EA") // auth-gated functions
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleAuth    = lipgloss.NewStyle().Foreground(ColorAuth)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleDanger = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the urwacli ASCII banner.
func Banner() string {
	art := `
  _   _ ______        ___    ____ _     ___
 | | | |  _ \ \      / / \  / ___| |   |_ _|
 | | | | |_) \ \ /\ / / _ \| |   | |    | |
 | |_| |  _ < \ V  V / ___ \ |___| |___ | |
  \___/|_| \_\ \_/\_/_/   \_\____|_____|___|`

	tagline := StyleMeta.Render("     Confidential uRWA20 console  ·  v" + Version)
	features := StyleMeta.Render("  ✦ Sapphire  ✦ SIWE sessions  ✦ Encrypted events")

	return StyleChain.Render(art) + "\n" + tagline + "\n" + features + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a follow-up suggestion, usually a command to run.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a network name.
func ChainName(c string) string { return StyleChain.Render(c) }

// DangerBox wraps content in a red bordered box.
func DangerBox(content string) string { return StyleDanger.Render(content) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// padR pads s with spaces to n runes.
func padR(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}

// trimErr shortens common RPC errors for table cells.
func trimErr(s string) string {
	switch {
	case strings.Contains(s, "connection refused"), strings.Contains(s, "dial tcp"):
		return "unreachable"
	case strings.Contains(s, "context deadline exceeded"):
		return "timeout"
	}
	if len(s) > 30 {
		return s[:27] + "..."
	}
	return s
}

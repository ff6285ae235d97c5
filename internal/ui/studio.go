package ui

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/urwacli/internal/contract"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StudioModel is the Bubble Tea model for the function navigator. Reads
// and writes are navigable, events are listed for reference, and Enter
// exits with the function under the cursor.
type StudioModel struct {
	ContractName  string
	Address       string
	Network       string
	Authenticated bool

	reads  []*contract.FunctionDescriptor
	writes []*contract.FunctionDescriptor
	events []*contract.EventDescriptor
	cursor int

	Selected *contract.FunctionDescriptor
	Quitting bool
}

// NewStudio builds a studio over iface. Reads are listed before writes.
func NewStudio(iface *contract.Interface, name, network, address string, authenticated bool) StudioModel {
	reads, writes := iface.Partition()
	return StudioModel{
		ContractName:  name,
		Address:       address,
		Network:       network,
		Authenticated: authenticated,
		reads:         reads,
		writes:        writes,
		events:        iface.Events(),
	}
}

func (m StudioModel) navLen() int { return len(m.reads) + len(m.writes) }

func (m StudioModel) at(pos int) *contract.FunctionDescriptor {
	if pos < len(m.reads) {
		return m.reads[pos]
	}
	return m.writes[pos-len(m.reads)]
}

func (m StudioModel) Init() tea.Cmd { return nil }

func (m StudioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.navLen()-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(m.navLen()-1, 0)
	case "enter", " ":
		if m.navLen() > 0 {
			m.Selected = m.at(m.cursor)
			return m, tea.Quit
		}
	}
	return m, nil
}

const sepWidth = 72

func (m StudioModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(StyleTitle.Render(fmt.Sprintf("  Contract Studio  ·  %s  ·  %s", m.ContractName, m.Network)) + "\n\n")
	fmt.Fprintf(&sb, "  %-10s %s\n", StyleMeta.Render("Address"), StyleAddress.Render(m.Address))
	session := StyleWarning.Render("signed out")
	if m.Authenticated {
		session = StyleSuccess.Render("authenticated")
	}
	fmt.Fprintf(&sb, "  %-10s %s\n", StyleMeta.Render("Session"), session)
	fmt.Fprintf(&sb, "  %-10s %s · %s\n\n",
		StyleMeta.Render("ABI"),
		StyleInfo.Render(fmt.Sprintf("%d functions", m.navLen())),
		StyleMeta.Render(fmt.Sprintf("%d events", len(m.events))))

	if len(m.reads) > 0 {
		sb.WriteString(sectionHeader("Read", len(m.reads)))
		for i, fn := range m.reads {
			sb.WriteString(m.functionLine(fn, i, StyleValue))
		}
		sb.WriteString("\n")
	}

	if len(m.writes) > 0 {
		sb.WriteString(sectionHeader("Write", len(m.writes)))
		for i, fn := range m.writes {
			sb.WriteString(m.functionLine(fn, len(m.reads)+i, StyleWarning))
		}
		sb.WriteString("\n")
	}

	if len(m.events) > 0 {
		sb.WriteString(sectionHeader("Events", len(m.events)))
		for _, ev := range m.events {
			fmt.Fprintf(&sb, "    %s(%s)\n", StyleInfo.Render(ev.Name), StyleMeta.Render(studioParamSig(ev.Inputs)))
		}
		sb.WriteString("\n")
	}

	ruler := StyleMeta.Render(strings.Repeat("─", sepWidth))
	sb.WriteString(ruler + "\n")
	if m.navLen() > 0 {
		cur := m.at(m.cursor)
		desc := cur.CanonicalSignature()
		if cur.RequiresAuthToken() {
			desc += "  ·  token filled from the active session"
		}
		sb.WriteString(StyleMeta.Render("  "+desc) + "\n")
	}
	sb.WriteString(ruler + "\n\n")

	sb.WriteString(
		StyleMeta.Render("  [ ↑↓ / jk ]") + " navigate   " +
			StyleInfo.Render("[ Enter ]") + " select & call   " +
			StyleMeta.Render("[ q ]") + " quit\n")

	return sb.String()
}

func (m StudioModel) functionLine(fn *contract.FunctionDescriptor, pos int, name lipgloss.Style) string {
	prefix := "    "
	if pos == m.cursor {
		prefix = "  ▸ "
	}
	lock := "  "
	if fn.RequiresAuthToken() {
		lock = StyleAuth.Render("🔒")
	}
	out := ""
	if fn.IsRead() && len(fn.Outputs) > 0 {
		out = StyleMeta.Render("  →  " + studioParamSig(fn.Outputs))
	}
	line := fmt.Sprintf("%s%s %s  %s(%s)%s",
		prefix,
		lock,
		StyleMeta.Render(fn.Selector()),
		name.Render(fn.Name),
		StyleMeta.Render(studioParamSig(fn.Inputs)),
		out,
	)
	if pos == m.cursor {
		return StyleSelected.Render(line) + "\n"
	}
	return line + "\n"
}

func sectionHeader(title string, n int) string {
	hdr := fmt.Sprintf("  ── %s (%d) ", title, n)
	fill := max(sepWidth-len(hdr)-2, 0)
	return StyleHeader.Render(hdr) + StyleMeta.Render(strings.Repeat("─", fill)) + "\n"
}

// RunStudio launches the navigator on the alt screen and returns the
// selected function, or nil if the user quit.
func RunStudio(m StudioModel) (*contract.FunctionDescriptor, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("studio: %w", err)
	}
	fm := final.(StudioModel)
	if fm.Quitting {
		return nil, nil
	}
	return fm.Selected, nil
}

// PromptArgs asks for every input of fn in order. A trailing auth token is
// skipped when skipToken is set, since the session supplies it.
func PromptArgs(p *Prompter, fn *contract.FunctionDescriptor, skipToken bool) ([]string, error) {
	n := len(fn.Inputs)
	if skipToken && fn.RequiresAuthToken() {
		n--
	}
	values := make([]string, n)
	for i := range n {
		in := fn.Inputs[i]
		label := in.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		v, err := p.Ask(fmt.Sprintf("%s (%s)", label, in.Type), "")
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// studioParamSig formats params as "type name, type name".
func studioParamSig(params []contract.ParamSpec) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strings.TrimSpace(p.Type + " " + p.Name)
	}
	return strings.Join(parts, ", ")
}

package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WizardResult holds answers collected by the init wizard.
type WizardResult struct {
	Network         string
	RPCAlgorithm    string
	ContractAddress string // empty when skipped
	Cancelled       bool
}

type wizardStep int

const (
	stepNetwork wizardStep = iota
	stepAlgorithm
	stepContract
	stepDone
)

var algorithms = []string{"fastest", "round-robin", "failover"}

// WizardModel is the Bubble Tea model behind `urwacli init`.
type WizardModel struct {
	step     wizardStep
	networks []string
	choices  []string
	cursor   int
	input    string
	errMsg   string
	validate func(string) error

	Result WizardResult
}

// NewWizard creates the wizard. validate checks the contract address; an
// empty answer skips the step.
func NewWizard(networks []string, validate func(string) error) WizardModel {
	return WizardModel{
		step:     stepNetwork,
		networks: networks,
		choices:  networks,
		validate: validate,
	}
}

func (m WizardModel) Init() tea.Cmd { return nil }

func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	inputMode := m.step == stepContract
	switch key.String() {
	case "ctrl+c", "esc":
		m.Result.Cancelled = true
		return m, tea.Quit
	case "q":
		if !inputMode {
			m.Result.Cancelled = true
			return m, tea.Quit
		}
		m.input += "q"
	case "up", "k":
		if !inputMode && m.cursor > 0 {
			m.cursor--
		} else if inputMode {
			m.input += key.String()
		}
	case "down", "j":
		if !inputMode && m.cursor < len(m.choices)-1 {
			m.cursor++
		} else if inputMode {
			m.input += key.String()
		}
	case "enter":
		if inputMode {
			if !m.applyInput() {
				return m, nil
			}
		} else {
			m.applyChoice()
		}
		m.advance()
	case "backspace":
		if inputMode && len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if inputMode && key.Type == tea.KeyRunes {
			m.input += string(key.Runes)
		}
	}

	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

func (m *WizardModel) advance() {
	m.step++
	m.cursor = 0
	switch m.step {
	case stepAlgorithm:
		m.choices = algorithms
	case stepContract:
		m.choices = nil
		m.input = ""
	}
}

func (m *WizardModel) applyChoice() {
	if m.cursor >= len(m.choices) {
		return
	}
	switch m.step {
	case stepNetwork:
		m.Result.Network = m.choices[m.cursor]
	case stepAlgorithm:
		m.Result.RPCAlgorithm = m.choices[m.cursor]
	}
}

// applyInput stores the contract address and reports whether the wizard
// may move on.
func (m *WizardModel) applyInput() bool {
	addr := strings.Trim(strings.TrimSpace(m.input), "[]\"")
	if addr == "" {
		m.errMsg = ""
		return true
	}
	if m.validate != nil {
		if err := m.validate(addr); err != nil {
			m.errMsg = err.Error()
			return false
		}
	}
	m.errMsg = ""
	m.Result.ContractAddress = addr
	return true
}

func (m WizardModel) View() string {
	var s string

	switch m.step {
	case stepNetwork:
		s = renderMenu("Select network:", m.choices, m.cursor)
	case stepAlgorithm:
		s = renderMenu("Select RPC algorithm:", m.choices, m.cursor)
	case stepContract:
		s = StyleTitle.Render(fmt.Sprintf("uRWA20 contract on %s", m.Result.Network)) + "\n\n"
		s += StyleMeta.Render("Enter the contract address (or press Enter to skip):") + "\n"
		s += "> " + StyleAddress.Render(m.input) + "█\n"
		if m.errMsg != "" {
			s += Err(m.errMsg) + "\n"
		}
	case stepDone:
		s = Success("Setup complete!") + "\n"
	}

	return StyleBorder.Render(s) + "\n"
}

func renderMenu(title string, items []string, cursor int) string {
	s := StyleTitle.Render(title) + "\n\n"
	for i, item := range items {
		icon := "  "
		style := lipgloss.NewStyle().Foreground(ColorValue)
		if i == cursor {
			icon = "▸ "
			style = StyleSelected
		}
		s += icon + style.Render(item) + "\n"
	}
	s += "\n" + StyleMeta.Render("↑/↓ navigate · Enter select · q quit")
	return s
}

// RunWizard launches the init wizard and returns its answers.
func RunWizard(m WizardModel) (*WizardResult, error) {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}
	result := final.(WizardModel).Result
	return &result, nil
}

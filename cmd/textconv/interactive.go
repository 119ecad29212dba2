package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/convert"
	"github.com/wippyai/textconv/transcoder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(16)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	truncStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Explore conversions in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newInteractiveModel(a.conv, 8), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			_, err := p.Run()
			return err
		},
	}
}

type interactiveModel struct {
	err      error
	conv     *convert.Converter
	codePage string
	narrow   []byte
	wide     []uint16
	bounded  []byte
	input    textinput.Model
	required int
	written  int
	capacity int
}

func newInteractiveModel(conv *convert.Converter, capacity int) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "type text to convert"
	ti.Prompt = "> "
	ti.Width = 40
	ti.Focus()

	name := "unknown"
	if cp, ok := conv.Transcoder().(*transcoder.CodePage); ok {
		name = cp.Name()
	}
	m := &interactiveModel{
		conv:     conv,
		codePage: name,
		input:    ti,
		capacity: max(capacity, 1),
	}
	m.recompute()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			m.capacity++
			m.recompute()
			return m, nil
		case "down":
			if m.capacity > 1 {
				m.capacity--
			}
			m.recompute()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.recompute()
	return m, cmd
}

// recompute converts the input to wide, then to narrow unbounded and bounded.
func (m *interactiveModel) recompute() {
	m.err = nil
	m.wide = convert.WideFromString(m.input.Value())

	narrow, n, err := m.conv.WideToNarrow(m.wide, charset.Terminated)
	if err != nil {
		m.err = err
		m.narrow, m.bounded = nil, nil
		return
	}
	m.narrow, m.required = narrow[:n], n

	m.bounded = make([]byte, m.capacity)
	m.written, err = m.conv.WideToNarrowBuf(m.bounded, m.wide, charset.Terminated)
	if err != nil {
		m.err = err
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("textconv"))
	b.WriteString(" ")
	b.WriteString(m.codePage)
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	} else {
		units := m.wide[:len(m.wide)-1]
		b.WriteString(labelStyle.Render(fmt.Sprintf("wide (%d)", len(units))))
		b.WriteString(resultStyle.Render(hexUnits(units)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("narrow (%d)", m.required)))
		b.WriteString(resultStyle.Render(fmt.Sprintf("% x", m.narrow)))
		b.WriteString("\n")

		style := resultStyle
		if m.written < m.required {
			style = truncStyle
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("cap %d", m.capacity)))
		b.WriteString(style.Render(fmt.Sprintf("% x", m.bounded[:m.written+1])))
		b.WriteString(fmt.Sprintf("  %d of %d units", m.written, m.required))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ capacity • esc quit"))
	return b.String()
}

func hexUnits(units []uint16) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = fmt.Sprintf("%04x", u)
	}
	return strings.Join(parts, " ")
}

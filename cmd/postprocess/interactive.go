package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/postprocess/internal/postprocess"
	"github.com/unbound-force/postprocess/internal/report"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// statusStyle renders the scroll/help footer.
var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// reportModel is the Bubble Tea model for browsing field summaries.
type reportModel struct {
	results  []postprocess.DirResult
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newReportModel(results []postprocess.DirResult) reportModel {
	h := help.New()
	content := renderReportContent(results)
	return reportModel{
		results: results,
		help:    h,
		keys:    defaultKeyMap,
		content: content,
	}
}

func renderReportContent(results []postprocess.DirResult) string {
	s := report.DefaultStyles()
	var sb strings.Builder

	records := 0
	for _, r := range results {
		records += r.Records
	}

	sb.WriteString(s.Header.MarginBottom(1).Render(
		fmt.Sprintf("Method summaries: %d directory(ies), %d record(s)",
			len(results), records)))
	sb.WriteString("\n\n")

	for _, result := range results {
		sb.WriteString(s.Header.Render(fmt.Sprintf("=== %s ===", result.Name)))
		sb.WriteString("\n")
		sb.WriteString(s.SubHeader.Render(fmt.Sprintf("    %s  [%d KB]", result.Path, result.SizeKB)))
		sb.WriteString("\n")

		rows := report.FieldRows(result.Uniq, result.Full)
		if len(rows) == 0 {
			sb.WriteString(s.Muted.Render("    No field dumps found."))
			sb.WriteString("\n\n")
			continue
		}

		sb.WriteString(report.FieldTable(rows, s, lipgloss.RoundedBorder()).String())
		sb.WriteString("\n\n")
	}

	return sb.String()
}

func (m reportModel) Init() tea.Cmd {
	return nil
}

func (m reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 0
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m reportModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveReport launches the Bubble Tea TUI for browsing
// field summaries.
func runInteractiveReport(results []postprocess.DirResult) error {
	model := newReportModel(results)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

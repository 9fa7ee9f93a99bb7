package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers (e.g. "=== owner__repo ===").
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// Count styles non-zero item counts.
	Count lipgloss.Style

	// Empty styles fields with no observed values.
	Empty lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		Count: lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		Empty: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),

		SummaryLabel: lipgloss.NewStyle().Bold(true).Width(20),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// CountStyle returns the style for an item count.
func (s Styles) CountStyle(n int) lipgloss.Style {
	if n == 0 {
		return s.Empty
	}
	return s.Count
}

package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// resultsTop is the first View line holding a result row: the input line
// followed by the panel's top border.
const resultsTop = 2

// Styles for the control
type Styles struct {
	Box       lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	NoResults lipgloss.Style
	Scroll    lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4C566A")).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E3440")).
			Background(lipgloss.Color("#88C0D0")),
		NoResults: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
		Scroll: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")),
	}
}

// VisibleRange returns the slice of matches currently rendered. The window
// keeps the selected row in its vertical centre.
func (m Model[T]) VisibleRange() (start, end int) {
	n := len(m.matches)
	if n <= m.maxVisible {
		return 0, n
	}
	if m.selected >= 0 {
		start = m.selected - m.maxVisible/2
	}
	start = max(0, min(start, n-m.maxVisible))
	return start, start + m.maxVisible
}

// View renders the text field and, when open, the results panel below it.
func (m Model[T]) View() string {
	in := m.input.View()
	if !m.open {
		return in
	}
	return lipgloss.JoinVertical(lipgloss.Left, in, m.resultsView())
}

func (m Model[T]) resultsView() string {
	if len(m.matches) == 0 {
		return m.styles.Box.Render(m.styles.NoResults.Render(m.noResults))
	}

	start, end := m.VisibleRange()
	rows := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		label := m.displayText(m.matches[i])
		if i == m.selected {
			rows = append(rows, m.styles.Selected.Render("> "+label))
			continue
		}
		rows = append(rows, m.styles.Item.Render("  "+label))
	}
	if end-start < len(m.matches) {
		rows = append(rows, m.styles.Scroll.Render(scrollHint(start, end, len(m.matches))))
	}
	return m.styles.Box.Render(strings.Join(rows, "\n"))
}

func scrollHint(start, end, total int) string {
	var b strings.Builder
	if start > 0 {
		b.WriteString("↑ ")
	}
	if end < total {
		b.WriteString("↓ ")
	}
	fmt.Fprintf(&b, "%d/%d", end-start, total)
	return b.String()
}

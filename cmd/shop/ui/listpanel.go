package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one entry in a ListPanel: a bold headline plus a muted detail
// line, mirroring the two-line items of the storefront panels.
type Row struct {
	Headline string
	Detail   string
}

// ListPanel renders a titled list of rows. Every dashboard panel goes
// through this one component; the caller supplies pre-formatted rows.
type ListPanel struct {
	Title string
	Empty string // Placeholder shown when there are no rows
	Rows  []Row
}

// NewListPanel creates a panel with the default empty placeholder.
func NewListPanel(title string) *ListPanel {
	return &ListPanel{Title: title, Empty: "No data"}
}

// SetRows replaces the panel contents.
func (p *ListPanel) SetRows(rows []Row) {
	p.Rows = rows
}

// View renders the panel. An empty row set renders the placeholder
// rather than nothing: empty results are state, not errors.
func (p *ListPanel) View(styles Styles, width int) string {
	var sb strings.Builder

	if p.Title != "" {
		sb.WriteString(styles.Title.Render(p.Title))
		sb.WriteString("\n")
	}

	if len(p.Rows) == 0 {
		sb.WriteString(styles.Muted.Render(p.Empty))
		sb.WriteString("\n")
		return styles.Card.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
	}

	for i, row := range p.Rows {
		sb.WriteString(styles.Bold.Render(row.Headline))
		if row.Detail != "" {
			sb.WriteString("\n")
			sb.WriteString(styles.Muted.Render(row.Detail))
		}
		if i < len(p.Rows)-1 {
			sb.WriteString("\n")
		}
	}

	return styles.Card.Width(width).Render(sb.String())
}

// JoinPanels lays panels out side by side when width allows, otherwise
// stacks them.
func JoinPanels(width int, rendered ...string) string {
	if width >= 120 && len(rendered) > 1 {
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

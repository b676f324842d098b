package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// IssueRow is one line of search output.
type IssueRow struct {
	Key      string
	Type     string
	Status   string
	Assignee string
	Summary  string
}

// IssueTable renders search results with the summary column taking the
// remaining terminal width.
type IssueTable struct {
	display *DisplayContext
	rows    []IssueRow
}

// NewIssueTable creates an empty table sized for display.
func NewIssueTable(display *DisplayContext) *IssueTable {
	if display == nil {
		display = NewDisplayContextWithWidth(DefaultTermWidth)
	}
	return &IssueTable{display: display}
}

// AddRow adds a row.
func (t *IssueTable) AddRow(row IssueRow) {
	t.rows = append(t.rows, row)
}

const (
	issueColumnPadding = 2
	minSummaryWidth    = 20
)

// widths returns the width of each column: key, type, status, assignee, summary.
func (t *IssueTable) widths() []int {
	w := make([]int, 5)
	for _, r := range t.rows {
		for i, cell := range []string{r.Key, r.Type, r.Status, r.Assignee} {
			if n := lipgloss.Width(cell); n > w[i] {
				w[i] = n
			}
		}
	}
	fixed := 0
	for _, n := range w[:4] {
		fixed += n + issueColumnPadding
	}
	w[4] = t.display.AvailableWidth(MarkdownRenderMargin) - fixed
	if w[4] < minSummaryWidth {
		w[4] = minSummaryWidth
	}
	return w
}

// Render generates the table output as a string.
func (t *IssueTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}
	widths := t.widths()

	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = []string{r.Key, r.Type, r.Status, r.Assignee, TruncateWithEllipsis(r.Summary, widths[4])}
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Width(widths[col])
			switch col {
			case 0:
				style = style.Inherit(AccentBold)
			case 1, 3:
				style = style.Inherit(Muted)
			}
			if col < len(widths)-1 {
				style = style.PaddingRight(issueColumnPadding)
			}
			return style
		}).
		Rows(rows...)

	return strings.TrimRight(tbl.Render(), "\n") + "\n"
}

// TruncateWithEllipsis shortens s to maxLen runes, breaking at a word
// boundary when one is close.
func TruncateWithEllipsis(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:maxLen-3])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

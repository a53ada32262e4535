package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/spektr-org/crimescope/engine"
)

// ============================================================================
// TERMINAL OUTPUT — lipgloss tables for --format pretty
// ============================================================================

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	footerStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// TextTable renders a year/total series as a bordered terminal table.
// An empty series renders the no-data message under the title.
func TextTable(points []engine.AggregatedPoint, title string) string {
	if len(points) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(title),
			footerStyle.Render(engine.NoDataReply))
	}

	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{strconv.Itoa(p.Year), engine.FormatCount(p.Total)}
	}
	s := engine.Summarize(points)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Year", "Total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return numberStyle
			}
			return cellStyle
		})

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		t.Render(),
		footerStyle.Render("Total "+engine.FormatCount(s.Sum)+" · peak "+strconv.Itoa(s.MaxYear)))
}

// ResultTable renders an engine table result.
func ResultTable(td *engine.TableData) string {
	if td == nil || len(td.Rows) == 0 {
		return footerStyle.Render(engine.NoDataReply)
	}

	headers := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		headers[i] = c.Label
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(td.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(td.Columns) && td.Columns[col].Align == "right" {
				return numberStyle
			}
			return cellStyle
		})

	parts := []string{titleStyle.Render(td.Title), t.Render()}
	if td.Summary != nil {
		if total, ok := td.Summary.Values["total"]; ok {
			parts = append(parts, footerStyle.Render(td.Summary.Label+": "+total))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

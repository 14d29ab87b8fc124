// Package table renders the day's log entries with bubble-table.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/foodlog/internal/store"
)

// Nord colors
const (
	ColorForeground = "#D8DEE9" // Nord4: Light gray
	ColorComment    = "#4C566A" // Nord3: Dark gray
	ColorGreen      = "#A3BE8C" // Nord14: Green
	ColorOrange     = "#D08770" // Nord12: Orange
	ColorPurple     = "#B48EAD" // Nord15: Purple
	ColorYellow     = "#EBCB8B" // Nord13: Yellow
	ColorTeal       = "#8FBCBB" // Nord7: Teal
)

// Column keys.
const (
	ColTime     = "time"
	ColFood     = "food"
	ColServings = "servings"
	ColCalories = "kcal"
	ColTags     = "tags"

	// colID holds the entry id in row data; it has no column.
	colID = "id"
)

// New creates a new bubble-table with Nord theme (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		Focused(true).
		BorderRounded()
}

// FromEntries builds the log table with a calorie total in the footer.
func FromEntries(entries []store.Entry) bbtable.Model {
	headers := []string{ColTime, ColFood, ColServings, ColCalories, ColTags}
	titles := map[string]string{
		ColTime: "Time", ColFood: "Food", ColServings: "Servings", ColCalories: "kcal", ColTags: "Tags",
	}

	var rowsData [][]string
	total := 0.0
	for _, e := range entries {
		total += e.Calories()
		rowsData = append(rowsData, []string{
			e.EatenAt.Format("15:04"),
			e.Food.Name,
			formatServings(e.Servings, e.Food.Unit),
			strconv.FormatFloat(e.Calories(), 'f', 0, 64),
			joinTags(e),
		})
	}

	widths := calculateColumnWidths(headers, titles, rowsData)
	cols := []bbtable.Column{}
	for _, h := range headers {
		w := widths[h]
		if w > 40 {
			w = 40 // Cap max width
		}
		cols = append(cols, bbtable.NewColumn(h, titles[h], w))
	}

	var rows []bbtable.Row
	for i, rd := range rowsData {
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			colID:       entries[i].ID,
			ColTime:     bbtable.NewStyledCell(rd[0], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))),
			ColFood:     rd[1],
			ColServings: rd[2],
			ColCalories: bbtable.NewStyledCell(rd[3], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))),
			ColTags:     bbtable.NewStyledCell(rd[4], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))),
		}))
	}

	footer := fmt.Sprintf("%d entries · %.0f kcal", len(entries), total)
	if len(entries) == 0 {
		footer = "Nothing logged. Press 'a' to add a food"
	}
	return New(cols).
		WithRows(rows).
		WithNoPagination().
		WithStaticFooter(footer)
}

// EntryID returns the entry id stored in a row built by FromEntries.
func EntryID(row bbtable.Row) (int64, bool) {
	id, ok := row.Data[colID].(int64)
	return id, ok
}

func formatServings(n float64, unit string) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

func joinTags(e store.Entry) string {
	parts := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func calculateColumnWidths(headers []string, titles map[string]string, rows [][]string) map[string]int {
	widths := make(map[string]int)
	for _, h := range headers {
		widths[h] = lipgloss.Width(titles[h])
	}

	for _, row := range rows {
		for i, val := range row {
			if i < len(headers) {
				if w := lipgloss.Width(val); w > widths[headers[i]] {
					widths[headers[i]] = w
				}
			}
		}
	}

	// Add padding
	for h := range widths {
		widths[h] += 2
	}

	return widths
}

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/jeanpaul/phonebook/internal/phonebook"
)

var columnWidths = []int{4, 14, 12, 14, 14, 14, 14}

func newTable(height int) table.Model {
	titles := append([]string{"№"}, phonebook.Labels...)
	columns := make([]table.Column, len(titles))
	for i, title := range titles {
		columns[i] = table.Column{Title: title, Width: columnWidths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(InputBorderStyle.GetBorderStyle()).
		BorderForeground(current.Dim).
		BorderBottom(true).
		Foreground(current.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(current.Base).
		Background(current.Accent).
		Bold(false)
	t.SetStyles(s)
	return t
}

// entryRow splits a stored line into table cells.
func entryRow(line string) table.Row {
	cells := strings.Split(line, phonebook.Separator)
	for len(cells) < phonebook.FieldCount {
		cells = append(cells, "")
	}
	return table.Row(cells[:phonebook.FieldCount])
}

func entryRows(lines []string) []table.Row {
	rows := make([]table.Row, len(lines))
	for i, line := range lines {
		rows[i] = entryRow(line)
	}
	return rows
}

// rowID returns the id cell of a row, or 0.
func rowID(row table.Row) int {
	if len(row) == 0 {
		return 0
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return 0
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todosync/internal/model"
)

const idColumnWidth = 6

func newTable() table.Model {
	t := table.New(
		table.WithColumns(tableColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("8")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)
	return t
}

func tableColumns(width int) []table.Column {
	desc := width - idColumnWidth - 6
	if desc < 20 {
		desc = 20
	}
	return []table.Column{
		{Title: "ID", Width: idColumnWidth},
		{Title: "Description", Width: desc},
	}
}

func tableRows(items []model.Item) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, table.Row{strconv.Itoa(it.ID), it.Description})
	}
	return rows
}

package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todosync/internal/model"
)

// row adapts model.Item to list.Item.
type row struct {
	item model.Item
}

func (r row) Title() string       { return r.item.Description }
func (r row) Description() string { return "#" + strconv.Itoa(r.item.ID) }
func (r row) FilterValue() string { return r.item.Description }

// rowDelegate renders one line per item: "> #12  buy milk".
type rowDelegate struct {
	// editing is the id being edited inline, or 0.
	editing *int
}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	id := mutedStyle.Render(fmt.Sprintf("#%-4d", r.item.ID))
	text := r.item.Description
	if text == "" {
		text = mutedStyle.Render("(empty)")
	}
	if d.editing != nil && *d.editing == r.item.ID {
		text = pendingStyle.Render("editing…")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+id+" "+text)
}

func toRows(items []model.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, row{item: it})
	}
	return out
}

// Package tui is the interactive todo client built on Bubble Tea.
//
// Remote calls run as commands; their results come back as messages and are
// applied to the list on the event loop. Calls are never de-duplicated, so
// the last response to arrive decides what is shown.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/todos"
)

// Layout selects how the list is drawn and how items are edited.
type Layout string

const (
	// LayoutInline edits the selected row in the input bar.
	LayoutInline Layout = "inline"
	// LayoutModal edits through a centered dialog.
	LayoutModal Layout = "modal"
	// LayoutTable draws a table and edits through the dialog.
	LayoutTable Layout = "table"
)

// ParseLayout accepts inline, modal and table.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutInline, LayoutModal, LayoutTable:
		return l, nil
	case "":
		return LayoutTable, nil
	}
	return "", fmt.Errorf("unknown layout %q (want inline, modal or table)", s)
}

// Options configure the program.
type Options struct {
	Layout Layout
	Policy todos.FailurePolicy
	Title  string
	Logger *zap.Logger
}

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeInlineEdit
)

// Messages carrying remote outcomes.
type (
	loadedMsg  struct{ out todos.Outcome[[]model.Item] }
	createdMsg struct{ out todos.Outcome[model.Item] }
	updatedMsg struct {
		id          int
		description string
		out         todos.Outcome[todos.Done]
	}
	deletedMsg struct {
		id  int
		out todos.Outcome[todos.Done]
	}
)

// Model is the Bubble Tea model of the client.
type Model struct {
	ctx  context.Context
	svc  todos.Service
	opts Options
	log  *zap.Logger
	keys keyMap

	items  todos.List
	dialog todos.EditDialog
	mode   mode
	// editingID is shared with the list delegate; 0 means no inline edit.
	editingID *int

	draft  textinput.Model
	editor textinput.Model
	list   list.Model
	table  table.Model

	pending   int
	status    string
	statusErr bool
	width     int
	height    int
}

// New builds the model. Nothing is fetched until Init runs.
func New(ctx context.Context, svc todos.Service, opts Options) Model {
	if opts.Layout == "" {
		opts.Layout = LayoutTable
	}
	if opts.Title == "" {
		opts.Title = "Todo List"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	editing := new(int)
	keys := defaultKeys()

	l := list.New(nil, rowDelegate{editing: editing}, 0, 0)
	l.Title = opts.Title
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.browseHelp
	l.AdditionalFullHelpKeys = keys.browseHelp

	draft := textinput.New()
	draft.Prompt = "> "
	draft.Placeholder = "Enter todo description"
	draft.CharLimit = 255

	editor := textinput.New()
	editor.Prompt = "> "
	editor.CharLimit = 255

	return Model{
		ctx:       ctx,
		svc:       svc,
		opts:      opts,
		log:       opts.Logger.Named("tui"),
		keys:      keys,
		dialog:    todos.Closed{},
		editingID: editing,
		draft:     draft,
		editor:    editor,
		list:      l,
		table:     newTable(),
		width:     80,
		height:    24,
	}
}

// Run starts the program on the terminal's alternate screen.
func Run(ctx context.Context, svc todos.Service, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Items returns the list currently shown.
func (m Model) Items() []model.Item { return m.items.Items() }

// Init loads the collection once at startup.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		items, err := svc.List(ctx)
		return loadedMsg{out: todos.From(items, err)}
	}
}

func (m Model) createCmd(description string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		item, err := svc.Create(ctx, description)
		return createdMsg{out: todos.From(item, err)}
	}
}

func (m Model) updateCmd(id int, description string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		err := svc.Update(ctx, id, description)
		return updatedMsg{id: id, description: description, out: todos.From(todos.Done{}, err)}
	}
}

func (m Model) deleteCmd(id int) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		err := svc.Delete(ctx, id)
		return deletedMsg{id: id, out: todos.From(todos.Done{}, err)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		m.settle()
		m.items = m.items.Loaded(msg.out)
		if msg.out.OK() {
			m.setStatus(fmt.Sprintf("loaded %d todos", m.items.Len()))
		} else {
			m.setError("load", msg.out.Err)
		}
		return m, m.refresh()

	case createdMsg:
		m.settle()
		m.items = m.items.Created(msg.out)
		if !msg.out.OK() {
			m.setError("create", msg.out.Err)
			return m, nil
		}
		m.draft.SetValue("")
		m.setStatus(fmt.Sprintf("added #%d", msg.out.Value.ID))
		return m, m.refresh()

	case updatedMsg:
		m.settle()
		m.items = m.items.Updated(msg.id, msg.description, msg.out)
		if !msg.out.OK() {
			m.setError(fmt.Sprintf("update #%d", msg.id), msg.out.Err)
			return m, m.afterFailure()
		}
		m.setStatus(fmt.Sprintf("updated #%d", msg.id))
		return m, m.refresh()

	case deletedMsg:
		m.settle()
		m.items = m.items.Deleted(msg.id, msg.out)
		if !msg.out.OK() {
			m.setError(fmt.Sprintf("delete #%d", msg.id), msg.out.Err)
			return m, m.afterFailure()
		}
		m.setStatus(fmt.Sprintf("deleted #%d", msg.id))
		return m, m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.passThrough(msg)
}

// settle marks one outstanding call as answered.
func (m *Model) settle() {
	if m.pending > 0 {
		m.pending--
	}
}

// passThrough delivers non-key messages (cursor blinks, list status
// timeouts) to every widget.
func (m Model) passThrough(msg tea.Msg) (tea.Model, tea.Cmd) {
	var draftCmd, editorCmd tea.Cmd
	m.draft, draftCmd = m.draft.Update(msg)
	m.editor, editorCmd = m.editor.Update(msg)
	next, widgetCmd := m.forward(msg)
	return next, tea.Batch(draftCmd, editorCmd, widgetCmd)
}

func (m *Model) afterFailure() tea.Cmd {
	if m.opts.Policy != todos.RefetchOnFailure {
		return nil
	}
	m.pending++
	return m.loadCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if todos.IsOpen(m.dialog) {
		return m.handleDialogKey(msg)
	}
	switch m.mode {
	case modeCreate:
		return m.handleCreateKey(msg)
	case modeInlineEdit:
		return m.handleInlineEditKey(msg)
	}

	if m.opts.Layout != LayoutTable && m.list.FilterState() == list.Filtering {
		return m.forward(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Add):
		m.mode = modeCreate
		m.draft.CursorEnd()
		return m, m.draft.Focus()

	case key.Matches(msg, m.keys.Reload):
		m.pending++
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pending++
		return m, m.deleteCmd(it.ID)

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editor.SetValue(it.Description)
		m.editor.CursorEnd()
		if m.opts.Layout == LayoutInline {
			m.mode = modeInlineEdit
			*m.editingID = it.ID
		} else {
			m.dialog, _ = todos.OpenEditor(m.items, it.ID)
		}
		return m, m.editor.Focus()
	}

	return m.forward(msg)
}

func (m Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		// The draft stays in the field until the server acknowledges it.
		m.mode = modeBrowse
		m.draft.Blur()
		m.pending++
		return m, m.createCmd(m.draft.Value())
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.draft.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	return m, cmd
}

func (m Model) handleInlineEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		id := *m.editingID
		m.stopInlineEdit()
		m.pending++
		return m, m.updateCmd(id, m.editor.Value())
	case key.Matches(msg, m.keys.Cancel):
		m.stopInlineEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) stopInlineEdit() {
	m.mode = modeBrowse
	*m.editingID = 0
	m.editor.Blur()
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		open := m.dialog.(todos.Open)
		m.dialog = todos.Closed{}
		m.editor.Blur()
		m.pending++
		return m, m.updateCmd(open.Snapshot.ID, open.Snapshot.Description)
	case key.Matches(msg, m.keys.Cancel):
		m.dialog = todos.Closed{}
		m.editor.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.dialog = todos.WithDescription(m.dialog, m.editor.Value())
	return m, cmd
}

// forward hands msg to the active list widget.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.opts.Layout == LayoutTable {
		m.table, cmd = m.table.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) selected() (model.Item, bool) {
	if m.opts.Layout == LayoutTable {
		return m.items.At(m.table.Cursor())
	}
	r, ok := m.list.SelectedItem().(row)
	if !ok {
		return model.Item{}, false
	}
	return m.items.Get(r.item.ID)
}

// refresh pushes the current list into the widgets.
func (m *Model) refresh() tea.Cmd {
	items := m.items.Items()
	m.table.SetRows(tableRows(items))
	if c := m.table.Cursor(); c >= len(items) && len(items) > 0 {
		m.table.SetCursor(len(items) - 1)
	}
	cmd := m.list.SetItems(toRows(items))
	if i := m.list.Index(); i >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
	return cmd
}

func (m *Model) resize() {
	w := m.width - 4
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	m.list.SetSize(w, h)
	m.table.SetColumns(tableColumns(w))
	m.table.SetWidth(w)
	m.table.SetHeight(h)
	m.draft.Width = w - 6
	m.editor.Width = w - 10
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
	m.log.Debug(s)
}

func (m *Model) setError(op string, err error) {
	m.status, m.statusErr = op+" failed: "+err.Error(), true
	m.log.Warn("remote call failed", zap.String("op", op), zap.Error(err))
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	if open, ok := m.dialog.(todos.Open); ok {
		body = m.dialogView(open)
	} else if m.opts.Layout == LayoutTable {
		body = m.tableView()
	} else {
		body = m.list.View()
	}

	parts := []string{body}
	switch m.mode {
	case modeCreate:
		parts = append(parts, inputBarStyle.Render("Add todo\n"+m.draft.View()))
	case modeInlineEdit:
		parts = append(parts, inputBarStyle.Render(fmt.Sprintf("Edit #%d\n%s", *m.editingID, m.editor.View())))
	}
	parts = append(parts, m.statusLine())
	return panelStyle.Render(strings.Join(parts, "\n"))
}

func (m Model) tableView() string {
	header := fmt.Sprintf("%s   %s %d",
		titleStyle.Render(m.opts.Title),
		accentStyle.Render("Total"), m.items.Len(),
	)
	help := make([]string, 0, 5)
	for _, b := range m.keys.browseHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	return header + "\n\n" + m.table.View() + "\n" + helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) dialogView(open todos.Open) string {
	help := make([]string, 0, 2)
	for _, b := range m.keys.inputHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	box := dialogStyle.Render(fmt.Sprintf("%s\n\n%s\n\n%s",
		titleStyle.Render(fmt.Sprintf("Edit todo #%d", open.Snapshot.ID)),
		m.editor.View(),
		helpStyle.Render(strings.Join(help, " • ")),
	))
	return lipgloss.Place(m.width-4, m.height-6, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) statusLine() string {
	var parts []string
	if m.pending > 0 {
		parts = append(parts, pendingStyle.Render(fmt.Sprintf("syncing (%d)", m.pending)))
	}
	switch {
	case m.status == "":
	case m.statusErr:
		parts = append(parts, errorStyle.Render("✖ "+m.status))
	default:
		parts = append(parts, successStyle.Render("✔ "+m.status))
	}
	if len(parts) == 0 {
		return mutedStyle.Render("ready")
	}
	return strings.Join(parts, "  ")
}

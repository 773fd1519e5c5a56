package todos

import "github.com/idilsaglam/todosync/internal/model"

// EditDialog is either Closed or Open with a snapshot of the item being edited.
type EditDialog interface {
	isEditDialog()
}

// Closed is the resting state of the edit dialog.
type Closed struct{}

// Open carries a copy of the item taken when the dialog opened. Typing only
// changes the snapshot; the list is untouched until the update succeeds.
type Open struct {
	Snapshot model.Item
}

func (Closed) isEditDialog() {}
func (Open) isEditDialog()   {}

// OpenEditor snapshots id from l. It reports false if id is not in the list.
func OpenEditor(l List, id int) (EditDialog, bool) {
	it, ok := l.Get(id)
	if !ok {
		return Closed{}, false
	}
	return Open{Snapshot: it}, true
}

// WithDescription returns the dialog with the snapshot's description replaced.
// A Closed dialog stays closed.
func WithDescription(d EditDialog, description string) EditDialog {
	open, ok := d.(Open)
	if !ok {
		return d
	}
	open.Snapshot.Description = description
	return open
}

// IsOpen reports whether d holds a snapshot.
func IsOpen(d EditDialog) bool {
	_, ok := d.(Open)
	return ok
}

package todos

import (
	"testing"

	"github.com/idilsaglam/todosync/internal/model"
)

func TestOpenEditorSnapshots(t *testing.T) {
	l := NewList([]model.Item{{ID: 1, Description: "buy milk"}})

	d, ok := OpenEditor(l, 1)
	if !ok {
		t.Fatal("OpenEditor: not opened")
	}
	d = WithDescription(d, "buy oat milk")

	open, isOpen := d.(Open)
	if !isOpen {
		t.Fatalf("dialog: got %T, want Open", d)
	}
	if open.Snapshot.Description != "buy oat milk" {
		t.Errorf("snapshot: got %q", open.Snapshot.Description)
	}
	if it, _ := l.Get(1); it.Description != "buy milk" {
		t.Errorf("list changed while editing: %q", it.Description)
	}
}

func TestOpenEditorUnknownID(t *testing.T) {
	d, ok := OpenEditor(NewList(nil), 5)
	if ok || IsOpen(d) {
		t.Fatalf("OpenEditor on empty list: ok=%v dialog=%T", ok, d)
	}
}

func TestWithDescriptionOnClosed(t *testing.T) {
	if d := WithDescription(Closed{}, "x"); IsOpen(d) {
		t.Fatal("closed dialog opened by typing")
	}
}

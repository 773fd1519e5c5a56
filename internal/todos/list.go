// Package todos holds the client-side view of the todo collection and the
// rules that keep it in step with the remote service.
package todos

import (
	"errors"
	"slices"

	"github.com/idilsaglam/todosync/internal/model"
)

var errUnknownFailure = errors.New("remote call failed")

// List is the local sequence of items. It is immutable: every transition
// returns a new List and leaves the receiver untouched.
type List struct {
	items []model.Item
}

// NewList builds a list from items, dropping later duplicates of an id.
func NewList(items []model.Item) List {
	seen := make(map[int]struct{}, len(items))
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return List{items: out}
}

// Items returns a copy of the sequence in display order.
func (l List) Items() []model.Item {
	return slices.Clone(l.items)
}

func (l List) Len() int { return len(l.items) }

// Index returns the position of id, or -1.
func (l List) Index(id int) int {
	return slices.IndexFunc(l.items, func(it model.Item) bool { return it.ID == id })
}

// Get returns the item with id.
func (l List) Get(id int) (model.Item, bool) {
	i := l.Index(id)
	if i < 0 {
		return model.Item{}, false
	}
	return l.items[i], true
}

// At returns the item at position i.
func (l List) At(i int) (model.Item, bool) {
	if i < 0 || i >= len(l.items) {
		return model.Item{}, false
	}
	return l.items[i], true
}

// Loaded replaces the list wholesale with the server collection.
func (l List) Loaded(o Outcome[[]model.Item]) List {
	if !o.OK() {
		return l
	}
	return NewList(o.Value)
}

// Created appends the server-acknowledged record. An id that is already
// present is replaced where it stands.
func (l List) Created(o Outcome[model.Item]) List {
	if !o.OK() {
		return l
	}
	if i := l.Index(o.Value.ID); i >= 0 {
		next := slices.Clone(l.items)
		next[i] = o.Value
		return List{items: next}
	}
	next := make([]model.Item, len(l.items), len(l.items)+1)
	copy(next, l.items)
	return List{items: append(next, o.Value)}
}

// Updated rewrites the description of id in place.
func (l List) Updated(id int, description string, o Outcome[Done]) List {
	if !o.OK() {
		return l
	}
	i := l.Index(id)
	if i < 0 {
		return l
	}
	next := slices.Clone(l.items)
	next[i].Description = description
	return List{items: next}
}

// Deleted filters id out of the list.
func (l List) Deleted(id int, o Outcome[Done]) List {
	if !o.OK() {
		return l
	}
	next := make([]model.Item, 0, len(l.items))
	for _, it := range l.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	return List{items: next}
}

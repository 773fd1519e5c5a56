package todos

import (
	"errors"
	"reflect"
	"testing"

	"github.com/idilsaglam/todosync/internal/model"
)

var errBoom = errors.New("boom")

func seeded() List {
	return NewList([]model.Item{{ID: 1, Description: "buy milk"}})
}

func TestCreatedAppendsServerRecord(t *testing.T) {
	l := seeded().Created(Succeeded(model.Item{ID: 2, Description: "clean house"}))

	want := []model.Item{{ID: 1, Description: "buy milk"}, {ID: 2, Description: "clean house"}}
	if got := l.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("items: got %v, want %v", got, want)
	}
}

func TestCreatedGrowsByOneWithUniqueIDs(t *testing.T) {
	l := NewList(nil)
	for i := 1; i <= 20; i++ {
		before := l.Len()
		l = l.Created(Succeeded(model.Item{ID: i * 7, Description: "x"}))
		if l.Len() != before+1 {
			t.Fatalf("create %d: len %d, want %d", i, l.Len(), before+1)
		}
	}
	seen := map[int]bool{}
	for _, it := range l.Items() {
		if seen[it.ID] {
			t.Fatalf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestCreatedReplacesKnownID(t *testing.T) {
	l := seeded().Created(Succeeded(model.Item{ID: 1, Description: "again"}))
	if l.Len() != 1 {
		t.Fatalf("len: got %d, want 1", l.Len())
	}
	if it, _ := l.At(0); it.Description != "again" {
		t.Errorf("description: got %q", it.Description)
	}
}

func TestCreatedFailureIsNoop(t *testing.T) {
	l := seeded()
	next := l.Created(Failed[model.Item](errBoom))
	if !reflect.DeepEqual(next.Items(), l.Items()) {
		t.Fatalf("failed create changed list: %v", next.Items())
	}
}

func TestUpdatedKeepsPosition(t *testing.T) {
	l := NewList([]model.Item{{ID: 1, Description: "buy milk"}, {ID: 2, Description: "clean house"}})
	next := l.Updated(1, "buy oat milk", Succeeded(Done{}))

	want := []model.Item{{ID: 1, Description: "buy oat milk"}, {ID: 2, Description: "clean house"}}
	if got := next.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("items: got %v, want %v", got, want)
	}
	if it, _ := l.At(0); it.Description != "buy milk" {
		t.Errorf("receiver mutated: %q", it.Description)
	}
}

func TestUpdatedFailureLeavesList(t *testing.T) {
	l := NewList([]model.Item{{ID: 1, Description: "buy milk"}, {ID: 2, Description: "clean house"}})
	next := l.Updated(1, "x", Failed[Done](errBoom))
	if !reflect.DeepEqual(next.Items(), l.Items()) {
		t.Fatalf("failed update changed list: %v", next.Items())
	}
}

func TestUpdatedUnknownID(t *testing.T) {
	l := seeded()
	next := l.Updated(42, "x", Succeeded(Done{}))
	if !reflect.DeepEqual(next.Items(), l.Items()) {
		t.Fatalf("unknown id changed list: %v", next.Items())
	}
}

func TestDeleted(t *testing.T) {
	l := NewList([]model.Item{{ID: 1, Description: "buy oat milk"}, {ID: 2, Description: "clean house"}})

	tests := []struct {
		name string
		id   int
		out  Outcome[Done]
		want []model.Item
	}{
		{"success", 1, Succeeded(Done{}), []model.Item{{ID: 2, Description: "clean house"}}},
		{"failure", 1, Failed[Done](errBoom), l.Items()},
		{"unknown id success", 9, Succeeded(Done{}), l.Items()},
		{"unknown id failure", 9, Failed[Done](errBoom), l.Items()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Deleted(tt.id, tt.out).Items()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadedRoundTrip(t *testing.T) {
	server := []model.Item{{ID: 3, Description: "c"}, {ID: 1, Description: "a"}, {ID: 2, Description: "b"}}
	l := NewList(nil).Loaded(Succeeded(server))
	if !reflect.DeepEqual(l.Items(), server) {
		t.Fatalf("got %v, want %v", l.Items(), server)
	}
}

func TestLoadedFailureKeepsEmpty(t *testing.T) {
	l := NewList(nil).Loaded(Failed[[]model.Item](errBoom))
	if l.Len() != 0 {
		t.Fatalf("len: got %d, want 0", l.Len())
	}
}

func TestLoadedDropsDuplicateIDs(t *testing.T) {
	l := NewList(nil).Loaded(Succeeded([]model.Item{{ID: 1, Description: "a"}, {ID: 1, Description: "b"}}))
	want := []model.Item{{ID: 1, Description: "a"}}
	if !reflect.DeepEqual(l.Items(), want) {
		t.Fatalf("got %v, want %v", l.Items(), want)
	}
}

func TestFailedNilErrorStillFails(t *testing.T) {
	if Failed[Done](nil).OK() {
		t.Fatal("Failed(nil) reported OK")
	}
}

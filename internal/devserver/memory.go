package devserver

import (
	"context"
	"slices"
	"sync"

	"github.com/idilsaglam/todosync/internal/model"
)

// MemoryStore keeps todos in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	items  []model.Item
	nextID int
}

// NewMemoryStore returns a store seeded with items. Ids continue after the
// largest seeded id.
func NewMemoryStore(items ...model.Item) *MemoryStore {
	s := &MemoryStore{items: slices.Clone(items), nextID: 1}
	for _, it := range items {
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.items)
	if out == nil {
		out = []model.Item{}
	}
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, description string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := model.Item{ID: s.nextID, Description: description}
	s.nextID++
	s.items = append(s.items, it)
	return it, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.items[i].Description = description
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

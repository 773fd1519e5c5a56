package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/idilsaglam/todosync/internal/model"
)

// FileStore keeps todos in a single human-readable JSON file.
// One process per file; there is no cross-process locking.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileData struct {
	NextID int          `json:"next_id"`
	Todos  []model.Item `json:"todos"`
}

// NewFileStore opens path, creating parent directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileStore{path: abs}, nil
}

func (s *FileStore) load() (fileData, error) {
	d := fileData{NextID: 1, Todos: []model.Item{}}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return d, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("json unmarshal: %w", err)
	}
	if d.Todos == nil {
		d.Todos = []model.Item{}
	}
	for _, it := range d.Todos {
		if it.ID >= d.NextID {
			d.NextID = it.ID + 1
		}
	}
	return d, nil
}

func (s *FileStore) save(d fileData) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return nil, err
	}
	return d.Todos, nil
}

func (s *FileStore) Create(ctx context.Context, description string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	it := model.Item{ID: d.NextID, Description: description}
	d.NextID++
	d.Todos = append(d.Todos, it)
	if err := s.save(d); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *FileStore) Update(ctx context.Context, id int, description string) error {
	return s.mutate(id, func(d *fileData, i int) {
		d.Todos[i].Description = description
	})
}

func (s *FileStore) Delete(ctx context.Context, id int) error {
	return s.mutate(id, func(d *fileData, i int) {
		d.Todos = append(d.Todos[:i], d.Todos[i+1:]...)
	})
}

func (s *FileStore) mutate(id int, fn func(d *fileData, i int)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return err
	}
	for i, it := range d.Todos {
		if it.ID == id {
			fn(&d, i)
			return s.save(d)
		}
	}
	return ErrNotFound
}

func (s *FileStore) Close() error { return nil }

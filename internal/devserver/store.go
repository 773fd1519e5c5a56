// Package devserver is a small Todo Collection Service for local work and
// tests. It speaks the same JSON contract as the PERN todo backend.
package devserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/todosync/internal/model"
)

// ErrNotFound is returned when an id does not exist.
var ErrNotFound = errors.New("todo not found")

// Store persists todos in creation order.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, description string) (model.Item, error)
	Update(ctx context.Context, id int, description string) error
	Delete(ctx context.Context, id int) error
	Close() error
}

// Open returns the store named kind: "memory", "file" (at path) or
// "postgres" (at dsn).
func Open(ctx context.Context, kind, path, dsn string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(path)
	case "postgres":
		if dsn == "" {
			return nil, errors.New("postgres store needs a dsn")
		}
		return OpenPostgres(ctx, dsn)
	}
	return nil, fmt.Errorf("unknown store %q", kind)
}

package devserver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/idilsaglam/todosync/internal/model"
)

// Schema of the PERN todo backend.
const createTodoTable = `CREATE TABLE IF NOT EXISTS todo (
	todo_id SERIAL PRIMARY KEY,
	description VARCHAR(255)
)`

// PostgresStore keeps todos in the PERN backend's "todo" table.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dsn and makes sure the table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTodoTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT todo_id, COALESCE(description, '') FROM todo ORDER BY todo_id`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Description); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresStore) Create(ctx context.Context, description string) (model.Item, error) {
	it := model.Item{Description: description}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO todo (description) VALUES ($1) RETURNING todo_id`, description,
	).Scan(&it.ID)
	if err != nil {
		return model.Item{}, fmt.Errorf("create todo: %w", err)
	}
	return it, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int, description string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE todo SET description = $1 WHERE todo_id = $2`, description, id)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return expectOneRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todo WHERE todo_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return expectOneRow(res)
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/task"
)

// SQLite implements task.Store using SQLite. Each day's list is one row
// holding the encoded JSON array, so the on-disk format matches an export.
type SQLite struct {
	db *sql.DB
}

var _ task.Store = (*SQLite)(nil)

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// GetTasks returns the list stored for key.
func (s *SQLite) GetTasks(ctx context.Context, key string) ([]task.Task, error) {
	payload, err := readPayload(ctx, s.db, key)
	if err != nil {
		return nil, err
	}
	tasks, err := task.DecodeList(payload)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return tasks, nil
}

// GetTask returns task id of key.
func (s *SQLite) GetTask(ctx context.Context, key string, id int) (task.Task, error) {
	tasks, err := s.GetTasks(ctx, key)
	if err != nil {
		return task.Task{}, err
	}
	if id < 0 || id >= len(tasks) {
		return task.Task{}, fmt.Errorf("%w: %s #%d", task.ErrTaskNotFound, key, id)
	}
	return tasks[id], nil
}

// SaveTask appends an incomplete task to key.
// A malformed stored list is reported and left untouched.
func (s *SQLite) SaveTask(ctx context.Context, key, text string) (task.Task, int, error) {
	t, err := task.New(key, text)
	if err != nil {
		return task.Task{}, 0, err
	}

	var id int
	err = s.update(ctx, key, func(payload []byte) ([]byte, error) {
		out, n, err := task.Append(payload, t)
		id = n
		return out, err
	})
	if err != nil {
		return task.Task{}, 0, fmt.Errorf("saving to %s: %w", key, err)
	}
	return t, id, nil
}

// ToggleTaskCompletion flips the completion flag of task id.
func (s *SQLite) ToggleTaskCompletion(ctx context.Context, key string, id int) (task.Task, error) {
	var toggled task.Task
	err := s.update(ctx, key, func(payload []byte) ([]byte, error) {
		out, t, err := task.ToggleAt(payload, id)
		toggled = t
		return out, err
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("toggling %s #%d: %w", key, id, err)
	}
	return toggled, nil
}

// Keys returns every stored key, oldest day first.
func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date_key FROM task_lists`)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keys: %w", err)
	}
	dateutil.SortKeys(keys)
	return keys, nil
}

// PutTasks replaces the list stored for key.
func (s *SQLite) PutTasks(ctx context.Context, key string, tasks []task.Task) error {
	payload, err := task.EncodeList(tasks)
	if err != nil {
		return err
	}
	if err := writePayload(ctx, s.db, key, payload); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// update runs a read-modify-write of key's payload inside one transaction.
func (s *SQLite) update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	payload, err := readPayload(ctx, tx, key)
	if err != nil {
		return err
	}

	out, err := fn(payload)
	if err != nil {
		return err
	}

	if err := writePayload(ctx, tx, key, out); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func readPayload(ctx context.Context, q queryer, key string) ([]byte, error) {
	var payload string
	err := q.QueryRowContext(ctx, `SELECT payload FROM task_lists WHERE date_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", key, err)
	}
	return []byte(payload), nil
}

func writePayload(ctx context.Context, q queryer, key string, payload []byte) error {
	query := `
		INSERT INTO task_lists (date_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(date_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	if _, err := q.ExecContext(ctx, query, key, string(payload), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// SetRaw stores payload verbatim. It exists for imports of legacy dumps and
// for tests that need a corrupt row.
func (s *SQLite) SetRaw(ctx context.Context, key string, payload []byte) error {
	return writePayload(ctx, s.db, key, payload)
}

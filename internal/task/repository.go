package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/javiermolinar/calendo/internal/dateutil"
)

// Store defines the storage interface for day task lists.
// Lists are keyed by the MM-DD-YYYY form of the day.
type Store interface {
	// GetTasks returns the list for key, or an empty list when none is stored.
	// Returns ErrMalformedPayload if the stored list cannot be decoded.
	GetTasks(ctx context.Context, key string) ([]Task, error)

	// GetTask returns task id of key.
	// Returns ErrTaskNotFound if the id is out of range.
	GetTask(ctx context.Context, key string, id int) (Task, error)

	// SaveTask appends an incomplete task and returns it with its id.
	SaveTask(ctx context.Context, key, text string) (Task, int, error)

	// ToggleTaskCompletion flips the completion flag of task id.
	ToggleTaskCompletion(ctx context.Context, key string, id int) (Task, error)

	// Keys returns every stored key, oldest day first.
	Keys(ctx context.Context) ([]string, error)

	// PutTasks replaces the list stored for key.
	PutTasks(ctx context.Context, key string, tasks []Task) error

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is a Store kept in process memory. Lists are held in their
// encoded form so it behaves like the persistent stores.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string][]byte)}
}

// SetRaw stores payload verbatim for key.
func (m *MemoryStore) SetRaw(key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = payload
}

// GetTasks returns the list for key.
func (m *MemoryStore) GetTasks(_ context.Context, key string) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks, err := DecodeList(m.lists[key])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return tasks, nil
}

// GetTask returns task id of key.
func (m *MemoryStore) GetTask(ctx context.Context, key string, id int) (Task, error) {
	tasks, err := m.GetTasks(ctx, key)
	if err != nil {
		return Task{}, err
	}
	if id < 0 || id >= len(tasks) {
		return Task{}, fmt.Errorf("%w: %s #%d", ErrTaskNotFound, key, id)
	}
	return tasks[id], nil
}

// SaveTask appends a new task to key.
func (m *MemoryStore) SaveTask(_ context.Context, key, text string) (Task, int, error) {
	t, err := New(key, text)
	if err != nil {
		return Task{}, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	payload, id, err := Append(m.lists[key], t)
	if err != nil {
		return Task{}, 0, fmt.Errorf("saving to %s: %w", key, err)
	}
	m.lists[key] = payload
	return t, id, nil
}

// ToggleTaskCompletion flips task id of key.
func (m *MemoryStore) ToggleTaskCompletion(_ context.Context, key string, id int) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, t, err := ToggleAt(m.lists[key], id)
	if err != nil {
		return Task{}, fmt.Errorf("toggling %s #%d: %w", key, id, err)
	}
	m.lists[key] = payload
	return t, nil
}

// Keys returns the stored keys, oldest day first.
func (m *MemoryStore) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.lists))
	for k := range m.lists {
		keys = append(keys, k)
	}
	dateutil.SortKeys(keys)
	return keys, nil
}

// PutTasks replaces the list for key.
func (m *MemoryStore) PutTasks(_ context.Context, key string, tasks []Task) error {
	payload, err := EncodeList(tasks)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = payload
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

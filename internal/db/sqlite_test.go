package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/javiermolinar/calendo/internal/task"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	repo, err := New(path)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestGetTasks_MissingKey(t *testing.T) {
	repo := newTestRepo(t)

	tasks, err := repo.GetTasks(context.Background(), "06-05-2023")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("got %d tasks, want 0", len(tasks))
	}
}

func TestSaveTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	const key = "06-05-2023"

	for i, text := range []string{"water plants", "call mom"} {
		got, id, err := repo.SaveTask(ctx, key, text)
		if err != nil {
			t.Fatalf("SaveTask failed: %v", err)
		}
		if id != i {
			t.Errorf("id = %d, want %d", id, i)
		}
		if got.Text != text || got.Date != key || got.IsComplete {
			t.Errorf("unexpected task %+v", got)
		}
	}

	tasks, err := repo.GetTasks(ctx, key)
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	want := []task.Task{
		{Date: key, Text: "water plants"},
		{Date: key, Text: "call mom"},
	}
	if diff := cmp.Diff(want, tasks); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveTask_EmptyText(t *testing.T) {
	repo := newTestRepo(t)

	_, _, err := repo.SaveTask(context.Background(), "06-05-2023", "   ")
	if !errors.Is(err, task.ErrEmptyText) {
		t.Errorf("got error %v, want %v", err, task.ErrEmptyText)
	}
}

func TestToggleTaskCompletion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	const key = "12-25-2023"

	if _, _, err := repo.SaveTask(ctx, key, "wrap gifts"); err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}

	got, err := repo.ToggleTaskCompletion(ctx, key, 0)
	if err != nil {
		t.Fatalf("ToggleTaskCompletion failed: %v", err)
	}
	if !got.IsComplete {
		t.Error("expected task to be complete")
	}

	stored, err := repo.GetTask(ctx, key, 0)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !stored.IsComplete {
		t.Error("toggle was not persisted")
	}

	if _, err := repo.ToggleTaskCompletion(ctx, key, 3); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("got error %v, want %v", err, task.ErrTaskNotFound)
	}
}

func TestMalformedPayload(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	const key = "01-01-2024"

	if err := repo.SetRaw(ctx, key, []byte("{broken")); err != nil {
		t.Fatalf("SetRaw failed: %v", err)
	}

	if _, err := repo.GetTasks(ctx, key); !errors.Is(err, task.ErrMalformedPayload) {
		t.Errorf("GetTasks error = %v, want %v", err, task.ErrMalformedPayload)
	}
	if _, _, err := repo.SaveTask(ctx, key, "new"); !errors.Is(err, task.ErrMalformedPayload) {
		t.Errorf("SaveTask error = %v, want %v", err, task.ErrMalformedPayload)
	}

	payload, err := readPayload(ctx, repo.db, key)
	if err != nil {
		t.Fatalf("readPayload failed: %v", err)
	}
	if string(payload) != "{broken" {
		t.Errorf("payload was overwritten: %q", payload)
	}
}

func TestKeysAndPutTasks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	lists := map[string][]task.Task{
		"06-05-2023": {{Date: "06-05-2023", Text: "a"}},
		"01-10-2024": {{Date: "01-10-2024", Text: "b", IsComplete: true}},
		"12-01-2023": {{Date: "12-01-2023", Text: "c"}},
	}
	for key, tasks := range lists {
		if err := repo.PutTasks(ctx, key, tasks); err != nil {
			t.Fatalf("PutTasks failed: %v", err)
		}
	}

	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"06-05-2023", "12-01-2023", "01-10-2024"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	got, err := repo.GetTasks(ctx, "01-10-2024")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if diff := cmp.Diff(lists["01-10-2024"], got); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, _, err := repo.SaveTask(ctx, "03-14-2024", "pi day"); err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	repo, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = repo.Close() }()

	tasks, err := repo.GetTasks(ctx, "03-14-2024")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "pi day" {
		t.Errorf("got %+v", tasks)
	}
}

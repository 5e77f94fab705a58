// Package task defines the per-day task records kept by calendo.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrEmptyText = errors.New("task text cannot be empty")
)

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrMalformedPayload = errors.New("stored task list is malformed")
)

// Task is one entry of a day's list. The JSON names are the on-disk format
// and must not change.
type Task struct {
	Date       string `json:"date"`
	Text       string `json:"task"`
	IsComplete bool   `json:"isComplete"`
}

// New creates an incomplete task for the given store key.
// Leading and trailing whitespace is trimmed from text.
func New(key, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	return Task{Date: key, Text: text}, nil
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.IsComplete = !t.IsComplete
}

// Entry pairs a task with its id, the position in the day's list.
type Entry struct {
	ID   int
	Task Task
}

// Entries numbers tasks by position.
func Entries(tasks []Task) []Entry {
	out := make([]Entry, len(tasks))
	for i, t := range tasks {
		out[i] = Entry{ID: i, Task: t}
	}
	return out
}

// Incomplete returns the entries not yet completed, keeping their ids.
func Incomplete(tasks []Task) []Entry {
	var out []Entry
	for i, t := range tasks {
		if !t.IsComplete {
			out = append(out, Entry{ID: i, Task: t})
		}
	}
	return out
}

// EncodeList serializes a day's list as a JSON array.
func EncodeList(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encoding task list: %w", err)
	}
	return b, nil
}

// DecodeList parses a JSON array of tasks. An empty payload is an empty list.
func DecodeList(payload []byte) ([]Task, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil, nil
	}
	var tasks []Task
	if err := json.Unmarshal(payload, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return tasks, nil
}

// Append decodes payload, appends t and re-encodes. A malformed payload is
// returned as an error so existing data is never overwritten.
func Append(payload []byte, t Task) ([]byte, int, error) {
	tasks, err := DecodeList(payload)
	if err != nil {
		return nil, 0, err
	}
	tasks = append(tasks, t)
	out, err := EncodeList(tasks)
	if err != nil {
		return nil, 0, err
	}
	return out, len(tasks) - 1, nil
}

// ToggleAt decodes payload, flips the completion of task id and re-encodes.
func ToggleAt(payload []byte, id int) ([]byte, Task, error) {
	tasks, err := DecodeList(payload)
	if err != nil {
		return nil, Task{}, err
	}
	if id < 0 || id >= len(tasks) {
		return nil, Task{}, fmt.Errorf("%w: id %d", ErrTaskNotFound, id)
	}
	tasks[id].Toggle()
	out, err := EncodeList(tasks)
	if err != nil {
		return nil, Task{}, err
	}
	return out, tasks[id], nil
}

// Package store mirrors the task list to a size-bounded persisted blob
// and reads it back tolerantly: corrupt or malformed data degrades to a
// fresh empty list instead of crashing the session.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/taskpad/internal/model"
	"github.com/idilsaglam/taskpad/internal/sanitize"
)

const (
	tasksKey   = "tasks.json"
	persistKey = "persist"

	// MaxBlobBytes caps the serialized snapshot at 5 MiB.
	MaxBlobBytes = 5 << 20
)

// ErrTooLarge is reported when the serialized list exceeds MaxBlobBytes.
var ErrTooLarge = errors.New("serialized task list exceeds 5 MiB")

// StorageError wraps any read/write failure. Recoverable by contract:
// loads degrade to an empty list, saves are skipped and reported.
type StorageError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// The persisted blob must be an array of task-like objects; anything
// else is treated as corrupt. Field coercion happens after this check.
var tasksSchema = jsonschema.MustCompileString("tasks.schema.json", `{
	"type": "array",
	"items": { "type": "object" }
}`)

// Store persists tasks and the persistence-enabled flag through a KV.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Enabled reports whether persistence is on. The flag itself is
// persisted under its own key; an absent or unreadable flag means on.
func (s *Store) Enabled() bool {
	v, ok, err := s.kv.Get(persistKey)
	if err != nil || !ok {
		return true
	}
	return string(v) != "false"
}

// SetEnabled persists the flag.
func (s *Store) SetEnabled(on bool) error {
	v := "true"
	if !on {
		v = "false"
	}
	if err := s.kv.Set(persistKey, []byte(v)); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Save serializes the list and writes it, succeeding trivially when
// persistence is disabled. Failures never escape as anything but a
// *StorageError.
func (s *Store) Save(tasks []model.Task) error {
	if !s.Enabled() {
		return nil
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	if len(b) > MaxBlobBytes {
		return &StorageError{Op: "save", Err: ErrTooLarge}
	}
	if err := s.kv.Set(tasksKey, b); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Load reads the persisted blob. An absent blob is an empty list; a
// malformed one yields an empty list plus the error so the caller can
// report it and carry on. Each record is individually coerced and
// sanitized, empties dropped, and the result truncated to MaxTasks.
func (s *Store) Load() ([]model.Task, error) {
	b, ok, err := s.kv.Get(tasksKey)
	if err != nil {
		return []model.Task{}, &StorageError{Op: "load", Err: err}
	}
	if !ok {
		return []model.Task{}, nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return []model.Task{}, &StorageError{Op: "load", Err: fmt.Errorf("parse blob: %w", err)}
	}
	if err := tasksSchema.Validate(raw); err != nil {
		return []model.Task{}, &StorageError{Op: "load", Err: fmt.Errorf("unexpected blob shape: %w", err)}
	}

	records := raw.([]any) // schema guarantees an array of objects
	tasks := make([]model.Task, 0, len(records))
	for _, r := range records {
		obj := r.(map[string]any)
		text := sanitize.Text(coerceString(obj["text"]))
		if text == "" {
			continue
		}
		tasks = append(tasks, model.Task{Text: text, Done: coerceBool(obj["done"])})
		if len(tasks) == model.MaxTasks {
			break
		}
	}
	return tasks, nil
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func coerceBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "true" || x == "1"
	case float64:
		return x == 1
	default:
		return false
	}
}

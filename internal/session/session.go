// Package session owns the live task list for one program run: explicit
// load-or-empty init, mutation through the validator, and a flush to the
// store after every change. A failed or skipped save never aborts a
// mutation; it marks the session dirty and is logged.
package session

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/taskpad/internal/model"
	"github.com/idilsaglam/taskpad/internal/store"
	"github.com/idilsaglam/taskpad/internal/validate"
)

// Session holds the single-owner mutable task list.
type Session struct {
	tasks  []model.Task
	st     *store.Store
	logger *log.Logger
	dirty  bool
}

// Open loads the persisted snapshot, degrading to an empty list when the
// blob is corrupt. The degradation is logged, never fatal.
func Open(st *store.Store, logger *log.Logger) *Session {
	tasks, err := st.Load()
	if err != nil {
		logger.Warn("discarding unreadable task data", "err", err)
	}
	return &Session{tasks: tasks, st: st, logger: logger}
}

// Tasks returns the current list. Callers must not mutate it.
func (s *Session) Tasks() []model.Task { return s.tasks }

func (s *Session) Len() int { return len(s.tasks) }

// Dirty reports whether the list differs from what persistence holds
// (persistence disabled, or the last save failed).
func (s *Session) Dirty() bool { return s.dirty }

// Persistent reports whether mutations are being mirrored to storage.
func (s *Session) Persistent() bool { return s.st.Enabled() }

// Add validates raw text and appends a new pending task.
func (s *Session) Add(raw string) (model.Task, error) {
	text, err := validate.Text(raw, s.tasks)
	if err != nil {
		return model.Task{}, err
	}
	t := model.Task{Text: text}
	s.tasks = append(s.tasks, t)
	s.flush()
	return t, nil
}

// Toggle flips the completion flag of the task at index (0-based).
func (s *Session) Toggle(i int) (model.Task, error) {
	if i < 0 || i >= len(s.tasks) {
		return model.Task{}, fmt.Errorf("index out of range: have %d, got %d", len(s.tasks), i+1)
	}
	s.tasks[i].Done = !s.tasks[i].Done
	s.flush()
	return s.tasks[i], nil
}

// Remove deletes the task at index (0-based) and returns it.
func (s *Session) Remove(i int) (model.Task, error) {
	if i < 0 || i >= len(s.tasks) {
		return model.Task{}, fmt.Errorf("index out of range: have %d, got %d", len(s.tasks), i+1)
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.flush()
	return t, nil
}

// Replace swaps the whole list atomically (the import path).
func (s *Session) Replace(tasks []model.Task) {
	s.tasks = tasks
	s.flush()
}

// SetPersistence toggles mirroring. Turning it on flushes the current
// list immediately.
func (s *Session) SetPersistence(on bool) error {
	if err := s.st.SetEnabled(on); err != nil {
		return err
	}
	if on {
		s.flush()
	} else {
		s.dirty = true
	}
	return nil
}

func (s *Session) flush() {
	if !s.st.Enabled() {
		s.dirty = true
		return
	}
	if err := s.st.Save(s.tasks); err != nil {
		s.logger.Warn("save failed, continuing in memory", "err", err)
		s.dirty = true
		return
	}
	s.dirty = false
}

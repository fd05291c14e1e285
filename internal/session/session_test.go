package session

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/taskpad/internal/model"
	"github.com/idilsaglam/taskpad/internal/store"
	"github.com/idilsaglam/taskpad/internal/validate"
)

func newSession(t *testing.T) (*Session, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemKV())
	return Open(st, log.New(io.Discard)), st
}

func TestAddPersists(t *testing.T) {
	s, st := newSession(t)
	task, err := s.Add("  Buy <b>milk</b>  ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Text != "Buy milk" || task.Done {
		t.Errorf("unexpected task %+v", task)
	}
	if s.Dirty() {
		t.Error("session dirty after successful save")
	}
	persisted, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(persisted, []model.Task{{Text: "Buy milk"}}) {
		t.Errorf("persisted %+v", persisted)
	}
}

func TestAddDuplicateSecondAttempt(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Add("Buy milk"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := s.Add("bUY MILK"); !errors.Is(err, validate.ErrDuplicate) {
		t.Fatalf("second add: got %v, want ErrDuplicate", err)
	}
	if s.Len() != 1 {
		t.Errorf("list length %d after rejected add", s.Len())
	}
}

func TestToggleAndRemove(t *testing.T) {
	s, _ := newSession(t)
	s.Add("one")
	s.Add("two")

	task, err := s.Toggle(1)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !task.Done {
		t.Error("toggle did not set done")
	}
	if _, err := s.Toggle(5); err == nil {
		t.Error("expected out-of-range error")
	}

	removed, err := s.Remove(0)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.Text != "one" {
		t.Errorf("removed %+v", removed)
	}
	if s.Len() != 1 || s.Tasks()[0].Text != "two" {
		t.Errorf("remaining %+v", s.Tasks())
	}
	if _, err := s.Remove(-1); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	s, st := newSession(t)
	s.Add("old")
	next := []model.Task{{Text: "new one", Done: true}, {Text: "new two"}}
	s.Replace(next)
	if !reflect.DeepEqual(s.Tasks(), next) {
		t.Errorf("replace mismatch: %+v", s.Tasks())
	}
	persisted, _ := st.Load()
	if !reflect.DeepEqual(persisted, next) {
		t.Errorf("persisted %+v", persisted)
	}
}

func TestOpenDegradesOnCorruptBlob(t *testing.T) {
	kv := store.NewMemKV()
	kv.Set("tasks.json", []byte(`"not-an-array"`))
	s := Open(store.New(kv), log.New(io.Discard))
	if s.Len() != 0 {
		t.Errorf("expected fresh empty state, got %+v", s.Tasks())
	}
	// the session must stay usable
	if _, err := s.Add("recovered"); err != nil {
		t.Fatalf("Add after degraded open: %v", err)
	}
}

func TestPersistenceToggle(t *testing.T) {
	s, st := newSession(t)
	if err := s.SetPersistence(false); err != nil {
		t.Fatal(err)
	}
	s.Add("unsaved")
	if !s.Dirty() {
		t.Error("session should be dirty while persistence is off")
	}
	if persisted, _ := st.Load(); len(persisted) != 0 {
		t.Errorf("nothing should be persisted, got %+v", persisted)
	}

	if err := s.SetPersistence(true); err != nil {
		t.Fatal(err)
	}
	if s.Dirty() {
		t.Error("enabling persistence should flush")
	}
	persisted, _ := st.Load()
	if !reflect.DeepEqual(persisted, []model.Task{{Text: "unsaved"}}) {
		t.Errorf("persisted %+v", persisted)
	}
}

type failingKV struct{ store.KV }

func (f failingKV) Set(key string, value []byte) error {
	if key == "tasks.json" {
		return errors.New("quota exceeded")
	}
	return f.KV.Set(key, value)
}

func TestSaveFailureIsRecoverable(t *testing.T) {
	st := store.New(failingKV{store.NewMemKV()})
	s := Open(st, log.New(io.Discard))
	task, err := s.Add("survives")
	if err != nil {
		t.Fatalf("Add must not fail on a save error: %v", err)
	}
	if task.Text != "survives" || s.Len() != 1 {
		t.Errorf("mutation lost: %+v", s.Tasks())
	}
	if !s.Dirty() {
		t.Error("session should be dirty after a failed save")
	}
}

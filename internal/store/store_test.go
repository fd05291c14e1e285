package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/idilsaglam/taskpad/internal/model"
	"github.com/idilsaglam/taskpad/internal/validate"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(NewMemKV())
	tasks := []model.Task{
		{Text: "Buy milk", Done: true},
		{Text: "Walk dog"},
		{Text: "fish &amp; chips"},
	}
	if err := s.Save(tasks); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, tasks)
	}
}

// Text the validator accepts must come back unchanged from a save/load
// cycle: the per-record sanitize on load has to be a no-op for
// already-sanitized text, even for inputs built to splice dangerous
// tokens across sanitizer steps.
func TestLoadKeepsValidatedText(t *testing.T) {
	raws := []string{
		"Buy milk & eggs",
		"9o[&\"on\x7fxis=9x;",
		"java\x7fscript:x",
		"on<b>xis=9x;",
		"say \"hi\" y'all",
	}
	s := New(NewMemKV())
	var tasks []model.Task
	for _, raw := range raws {
		text, err := validate.Text(raw, tasks)
		if err != nil {
			continue // rejected input never reaches the store
		}
		tasks = append(tasks, model.Task{Text: text})
	}
	if len(tasks) == 0 {
		t.Fatal("every input was rejected; nothing to round trip")
	}
	if err := s.Save(tasks); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Errorf("round trip lost or changed tasks:\n got %+v\nwant %+v", got, tasks)
	}
}

func TestLoadAbsent(t *testing.T) {
	got, err := New(NewMemKV()).Load()
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
}

func TestLoadCorruptBlob(t *testing.T) {
	blobs := []string{
		`"not-an-array"`,
		`{"text":"obj, not array"}`,
		`[1, 2, 3]`,
		`not json at all`,
	}
	for _, blob := range blobs {
		kv := NewMemKV()
		if err := kv.Set("tasks.json", []byte(blob)); err != nil {
			t.Fatal(err)
		}
		got, err := New(kv).Load()
		if err == nil {
			t.Errorf("blob %q: expected a reported load error", blob)
		}
		var se *StorageError
		if err != nil && !errors.As(err, &se) {
			t.Errorf("blob %q: error %v is not a *StorageError", blob, err)
		}
		if len(got) != 0 {
			t.Errorf("blob %q: expected empty list, got %+v", blob, got)
		}
	}
}

func TestLoadCoercion(t *testing.T) {
	kv := NewMemKV()
	blob := `[
		{"text": "ok", "done": true, "extra": "ignored"},
		{"text": "string done", "done": "true"},
		{"text": "numeric done", "done": 1},
		{"text": "weird done", "done": {"nested": true}},
		{"text": "  <b>needs cleaning</b>  "},
		{"text": ""},
		{"done": true},
		{"text": 42},
		{"text": "<script>alert(1)</script>"}
	]`
	if err := kv.Set("tasks.json", []byte(blob)); err != nil {
		t.Fatal(err)
	}
	got, err := New(kv).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []model.Task{
		{Text: "ok", Done: true},
		{Text: "string done", Done: true},
		{Text: "numeric done", Done: true},
		{Text: "weird done"},
		{Text: "needs cleaning"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("coercion mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadTruncatesToMaxTasks(t *testing.T) {
	kv := NewMemKV()
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < model.MaxTasks+50; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"text":"task %d"}`, i)
	}
	b.WriteString("]")
	if err := kv.Set("tasks.json", []byte(b.String())); err != nil {
		t.Fatal(err)
	}
	got, err := New(kv).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != model.MaxTasks {
		t.Errorf("expected truncation to %d, got %d", model.MaxTasks, len(got))
	}
}

func TestSaveDisabledWritesNothing(t *testing.T) {
	kv := NewMemKV()
	s := New(kv)
	if err := s.SetEnabled(false); err != nil {
		t.Fatal(err)
	}
	if err := s.Save([]model.Task{{Text: "ghost"}}); err != nil {
		t.Fatalf("disabled Save must succeed trivially, got %v", err)
	}
	if _, ok, _ := kv.Get("tasks.json"); ok {
		t.Error("disabled Save wrote a blob")
	}
}

func TestEnabledFlag(t *testing.T) {
	s := New(NewMemKV())
	if !s.Enabled() {
		t.Error("absent flag should mean enabled")
	}
	if err := s.SetEnabled(false); err != nil {
		t.Fatal(err)
	}
	if s.Enabled() {
		t.Error("flag off not honored")
	}
	if err := s.SetEnabled(true); err != nil {
		t.Fatal(err)
	}
	if !s.Enabled() {
		t.Error("flag on not honored")
	}
}

func TestSaveTooLarge(t *testing.T) {
	// The store does not validate tasks, so an oversized list is
	// representable; it must be refused without writing.
	kv := NewMemKV()
	s := New(kv)
	huge := strings.Repeat("x", 1<<20)
	tasks := make([]model.Task, 6)
	for i := range tasks {
		tasks[i] = model.Task{Text: huge}
	}
	err := s.Save(tasks)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, ok, _ := kv.Get("tasks.json"); ok {
		t.Error("oversized Save wrote a blob")
	}
}

func TestSaveNilList(t *testing.T) {
	s := New(NewMemKV())
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
}

func TestMemKVCopiesBothWays(t *testing.T) {
	kv := NewMemKV()
	in := []byte("[]")
	if err := kv.Set("tasks.json", in); err != nil {
		t.Fatal(err)
	}
	in[0] = 'X' // caller keeps mutating its buffer

	out, ok, err := kv.Get("tasks.json")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(out) != "[]" {
		t.Fatalf("Set did not copy: got %q", out)
	}
	out[0] = 'X' // and mutates what it read back

	again, _, _ := kv.Get("tasks.json")
	if string(again) != "[]" {
		t.Errorf("Get did not copy: stored value became %q", again)
	}
}

func TestDirKV(t *testing.T) {
	kv := NewDirKV(filepath.Join(t.TempDir(), "data"))

	if _, ok, err := kv.Get("tasks.json"); ok || err != nil {
		t.Fatalf("Get on missing key: ok=%v err=%v", ok, err)
	}
	if err := kv.Set("tasks.json", []byte("[]")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := kv.Get("tasks.json")
	if err != nil || !ok || string(v) != "[]" {
		t.Fatalf("Get after Set: %q ok=%v err=%v", v, ok, err)
	}
	if err := kv.Delete("tasks.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := kv.Delete("tasks.json"); err != nil {
		t.Fatalf("Delete of missing key should be tolerant: %v", err)
	}
	if _, ok, _ := kv.Get("tasks.json"); ok {
		t.Error("key still present after Delete")
	}
}

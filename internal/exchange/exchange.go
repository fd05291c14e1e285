// Package exchange converts between the in-memory task list and the
// line-oriented text format used for file import and export: one task
// per line, prefixed "[x] " when done and "[ ] " when pending.
package exchange

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/idilsaglam/taskpad/internal/model"
	"github.com/idilsaglam/taskpad/internal/sanitize"
)

// MaxImportBytes caps import files at 1 MiB.
const MaxImportBytes = 1 << 20

// Import failures. All of them abort the import and leave the current
// task list untouched.
var (
	ErrTooLarge     = errors.New("import file exceeds 1 MiB")
	ErrWrongType    = errors.New("import file must be plain text (.txt)")
	ErrTooManyLines = errors.New("import file holds more than 1000 tasks")
	ErrNoValidLines = errors.New("import file holds no valid tasks")
)

const (
	markDone    = "[x]"
	markPending = "[ ]"
)

// Export renders the list in the line format, one task per line with a
// trailing newline.
func Export(tasks []model.Task) []byte {
	var b strings.Builder
	for _, t := range tasks {
		mark := markPending
		if t.Done {
			mark = markDone
		}
		b.WriteString(mark)
		b.WriteString(" ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// Filename names an export after the current date, e.g. tasks_2026-08-26.txt.
func Filename(now time.Time) string {
	return fmt.Sprintf("tasks_%s.txt", now.Format("2006-01-02"))
}

// Parse decodes import file bytes into a new task list. declaredType is
// the file's MIME type when the caller knows one; a text type or a .txt
// extension satisfies the type check. Parse never touches the current
// list; on success the caller replaces it wholesale. Duplicate lines
// are preserved as-is — duplicate filtering applies only to
// interactive adds.
func Parse(name, declaredType string, data []byte) ([]model.Task, error) {
	if len(data) > MaxImportBytes {
		return nil, ErrTooLarge
	}
	if !textLike(name, declaredType) {
		return nil, ErrWrongType
	}

	raw := strings.ReplaceAll(string(data), "\r\n", "\n")
	var lines []string
	for _, ln := range strings.Split(raw, "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		lines = append(lines, ln)
	}
	if len(lines) > model.MaxTasks {
		return nil, ErrTooManyLines
	}

	tasks := make([]model.Task, 0, len(lines))
	for _, ln := range lines {
		clean := sanitize.Text(ln)
		done := false
		switch {
		case hasMarker(clean, markDone):
			done = true
			clean = clean[len(markDone):]
		case strings.HasPrefix(clean, markPending):
			clean = clean[len(markPending):]
		}
		clean = sanitize.Text(clean)
		if clean == "" || utf8.RuneCountInString(clean) > model.MaxTextLen {
			continue
		}
		tasks = append(tasks, model.Task{Text: clean, Done: done})
	}
	if len(tasks) == 0 {
		return nil, ErrNoValidLines
	}
	return tasks, nil
}

// hasMarker matches a leading done marker case-insensitively ([x]/[X]).
func hasMarker(s, mark string) bool {
	return len(s) >= len(mark) && strings.EqualFold(s[:len(mark)], mark)
}

func textLike(name, declaredType string) bool {
	if strings.HasPrefix(strings.ToLower(declaredType), "text/") {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

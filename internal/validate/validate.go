// Package validate enforces the add-time rules for task text.
package validate

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/idilsaglam/taskpad/internal/model"
	"github.com/idilsaglam/taskpad/internal/sanitize"
)

// Exactly one of these is returned per call, in this priority order.
var (
	ErrEmpty     = errors.New("task text is empty or contains only special characters")
	ErrTooLong   = errors.New("task text is too long (max 100 characters)")
	ErrDuplicate = errors.New("task already exists")
	ErrCapacity  = errors.New("task list is full (max 1000 tasks)")
)

// Text sanitizes raw input and checks it against the current list.
// On success it returns the sanitized text ready for insertion.
func Text(raw string, existing []model.Task) (string, error) {
	clean := sanitize.Text(raw)
	if clean == "" {
		return "", ErrEmpty
	}
	if utf8.RuneCountInString(clean) > model.MaxTextLen {
		return "", ErrTooLong
	}
	for _, t := range existing {
		if strings.EqualFold(t.Text, clean) {
			return "", ErrDuplicate
		}
	}
	if len(existing) >= model.MaxTasks {
		return "", ErrCapacity
	}
	return clean, nil
}

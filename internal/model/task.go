package model

// Limits enforced across the validation, storage, and import pipelines.
const (
	// MaxTextLen is the longest allowed task text, counted in runes.
	MaxTextLen = 100
	// MaxTasks bounds the owned list and the persisted snapshot.
	MaxTasks = 1000
)

// Task is the domain model for a single entry.
// A value object: no identity beyond its position in the owning list.
type Task struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

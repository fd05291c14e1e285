package cli

import "testing"

// Exit codes for paths that never touch storage.
func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no args", nil, 2},
		{"help", []string{"help"}, 0},
		{"unknown", []string{"frobnicate"}, 2},
		{"add missing text", []string{"add"}, 2},
		{"done missing index", []string{"done"}, 2},
		{"done not a number", []string{"done", "x"}, 2},
		{"rm not a number", []string{"rm", "x"}, 2},
		{"export extra args", []string{"export", "a", "b"}, 2},
		{"import missing file", []string{"import"}, 2},
		{"persist missing mode", []string{"persist"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Run(tt.args, Options{}); got != tt.want {
				t.Errorf("Run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

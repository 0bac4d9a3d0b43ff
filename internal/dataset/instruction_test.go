package dataset

import "testing"

func TestDeriveInstruction(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"underscores", "task_1_pick_up_cup", "Task 1 Pick Up Cup"},
		{"hyphens and dots", "fold-towel.v2", "Fold Towel V2"},
		{"collapses runs", "open__drawer--slowly", "Open Drawer Slowly"},
		{"plain", "wipe table", "Wipe Table"},
		{"empty", "", "Unknown Task"},
		{"only separators", "__--..", "Unknown Task"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveInstruction(tt.in); got != tt.want {
				t.Errorf("DeriveInstruction(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

package main

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	columns := []column{
		{title: "Task"},
		{title: "Episodes", count: true},
	}
	rows := [][]string{
		{"pick_cup", "12"},
		{"fold_towel"},
	}

	out := renderTable(columns, rows)
	if !strings.Contains(out, "Task") || !strings.Contains(out, "Episodes") {
		t.Fatalf("missing headers:\n%s", out)
	}
	if !strings.Contains(out, "pick_cup") || !strings.Contains(out, "fold_towel") {
		t.Fatalf("missing rows:\n%s", out)
	}
	// Count cells sit against the right edge of their column.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "pick_cup") && !strings.Contains(line, "12 │") {
			t.Errorf("episode count not right aligned:\n%s", out)
		}
	}
}

func TestRenderTableNoColumns(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

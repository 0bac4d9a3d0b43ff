package metafile

import (
	"errors"
	"testing"
)

func TestSelectPriorities(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{
			"data token wins",
			[]string{"/e/meta.json", "/e/episode_data.json"},
			"/e/episode_data.json",
		},
		{
			"episode token second",
			[]string{"/e/calibration.json", "/e/episode_0.json"},
			"/e/episode_0.json",
		},
		{
			"shortest name third",
			[]string{"/e/calibration_info.json", "/e/rec.json"},
			"/e/rec.json",
		},
		{
			"length tie broken alphabetically",
			[]string{"/e/bb.json", "/e/aa.json"},
			"/e/aa.json",
		},
		{
			"single candidate returned as-is",
			[]string{"/e/whatever.json"},
			"/e/whatever.json",
		},
		{
			"data token case-insensitive",
			[]string{"/e/meta.json", "/e/Main_DATA.json"},
			"/e/Main_DATA.json",
		},
		{
			"multiple data tokens pick deterministic one",
			[]string{"/e/zz_data.json", "/e/aa_data.json"},
			"/e/aa_data.json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.candidates)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if got != tt.want {
				t.Errorf("Select(%v) = %s, want %s", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestSelectOrderIndependent(t *testing.T) {
	forward := []string{"/e/meta.json", "/e/episode_data.json", "/e/info.json"}
	reversed := []string{"/e/info.json", "/e/episode_data.json", "/e/meta.json"}
	a, _ := Select(forward)
	b, _ := Select(reversed)
	if a != b {
		t.Errorf("selection depends on input order: %s vs %s", a, b)
	}
}

func TestSelectEmpty(t *testing.T) {
	_, err := Select(nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	underlying := errors.New("permission denied")
	err := Wrap(ErrAccess, "discover", "walk", "task root unreadable", underlying)
	if !errors.Is(err, ErrAccess) {
		t.Fatalf("expected ErrAccess marker, got %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "access error: discover: walk: task root unreadable: permission denied"
	if err.Error() != want {
		t.Errorf("Wrap() message = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "frames", "collect", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrValidation, "", "", "", nil)
	if err.Error() != "validation error: service failure" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestIsTaskFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"access", Wrap(ErrAccess, "dataset", "stat", "missing root", nil), true},
		{"timeout", Wrap(ErrTimeout, "dataset", "scan", "deadline", nil), true},
		{"validation", Wrap(ErrValidation, "camera", "detect", "bad cap", nil), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTaskFatal(tt.err); got != tt.want {
				t.Errorf("IsTaskFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithTask(context.Background(), "/data/pick_cube")
	ctx = WithRunID(ctx, "run-123")

	if task, ok := TaskFromContext(ctx); !ok || task != "/data/pick_cube" {
		t.Errorf("TaskFromContext = %q, %v", task, ok)
	}
	if id, ok := RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Errorf("RunIDFromContext = %q, %v", id, ok)
	}
	if _, ok := TaskFromContext(context.Background()); ok {
		t.Error("TaskFromContext on empty context should report absent")
	}
}

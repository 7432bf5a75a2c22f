package app

import (
	"errors"
	"testing"
)

func TestComponentError(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name     string
		err      *ComponentError
		expected string
	}{
		{"nil error", nil, ""},
		{"component only", &ComponentError{Component: "watcher"}, "watcher"},
		{"with action", &ComponentError{Component: "trigger mention", Action: "load script"}, "trigger mention: load script"},
		{"with cause", NewComponentError("trigger mention", "load script", base), "trigger mention: load script: boom"},
		{"cause only", &ComponentError{Component: "watcher", Err: base}, "watcher: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	if !errors.Is(NewComponentError("a", "b", base), base) {
		t.Error("expected ComponentError to unwrap to its cause")
	}
}

func TestInitError(t *testing.T) {
	err := &InitError{Component: "screen", Err: errors.New("no tty")}
	if err.Error() != "init screen: no tty" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Error("expected InitError to unwrap")
	}
}

func TestRecoveredPanicError(t *testing.T) {
	err := &RecoveredPanicError{Value: "bad"}
	if err.Error() != "panic: bad" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeNotFound, "block %d", 42)
	want := "NOT_FOUND: block 42"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := Wrap(ErrCodePersistence, errors.New("disk full"), "save project")
	if wrapped.Error() != "PERSISTENCE: save project: disk full" {
		t.Errorf("wrapped Error() = %q", wrapped.Error())
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeInvalidConnection, "terminal connected to itself")

	if !Is(err, ErrCodeInvalidConnection) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is should not match a different code")
	}
	if Is(errors.New("plain"), ErrCodeNotFound) {
		t.Error("Is should not match a plain error")
	}
	if got := GetCode(err); got != ErrCodeInvalidConnection {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUnwrapThroughChain(t *testing.T) {
	root := errors.New("root cause")
	err := fmt.Errorf("outer: %w", Wrap(ErrCodeViewNotReady, root, "viewport not measured"))

	if !Is(err, ErrCodeViewNotReady) {
		t.Error("Is should find the code through a wrapping chain")
	}
	if !errors.Is(err, root) {
		t.Error("errors.Is should reach the root cause")
	}
}

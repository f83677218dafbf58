package resilience

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"
)

func TestPermanentError(t *testing.T) {
	originalErr := errors.New("original error")
	permErr := NewPermanentError(originalErr)

	if permErr.Error() != originalErr.Error() {
		t.Errorf("expected %q, got %q", originalErr.Error(), permErr.Error())
	}

	var unwrapped *PermanentError
	if !errors.As(permErr, &unwrapped) {
		t.Error("expected to unwrap as PermanentError")
	}

	if !errors.Is(permErr, originalErr) {
		t.Error("expected permanent error to unwrap to original")
	}
}

func TestTransientError(t *testing.T) {
	originalErr := errors.New("original error")
	transErr := NewTransientError(originalErr)

	if transErr.Error() != originalErr.Error() {
		t.Errorf("expected %q, got %q", originalErr.Error(), transErr.Error())
	}

	var unwrapped *TransientError
	if !errors.As(transErr, &unwrapped) {
		t.Error("expected to unwrap as TransientError")
	}

	if !errors.Is(transErr, originalErr) {
		t.Error("expected transient error to unwrap to original")
	}
}

func TestNewPermanentError_Nil(t *testing.T) {
	if NewPermanentError(nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestNewTransientError_Nil(t *testing.T) {
	if NewTransientError(nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestIsPermanentError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "explicit permanent error",
			err:      NewPermanentError(errors.New("fatal")),
			expected: true,
		},
		{
			name:     "explicit transient error",
			err:      NewTransientError(errors.New("temporary")),
			expected: false,
		},
		{
			name:     "context canceled",
			err:      context.Canceled,
			expected: true,
		},
		{
			name:     "context deadline exceeded",
			err:      context.DeadlineExceeded,
			expected: true,
		},
		{
			name:     "generic error (default transient)",
			err:      errors.New("some error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsPermanentError(tt.err)
			if result != tt.expected {
				t.Errorf("IsPermanentError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "explicit transient error",
			err:      NewTransientError(errors.New("temporary")),
			expected: true,
		},
		{
			name:     "generic error (default transient)",
			err:      errors.New("some error"),
			expected: true,
		},
		{
			name:     "context canceled (permanent)",
			err:      context.Canceled,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsTransientError(tt.err)
			if result != tt.expected {
				t.Errorf("IsTransientError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestIsPermanentError_FileSystem(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"permission denied", &os.PathError{Op: "open", Path: "/root/secret", Err: syscall.EACCES}, true},
		{"not found", &os.PathError{Op: "open", Path: "/nonexistent", Err: syscall.ENOENT}, true},
		{"read-only filesystem", &os.PathError{Op: "rename", Path: "/ro/run_state.json", Err: syscall.EROFS}, true},
		{"disk full", &os.PathError{Op: "write", Path: "/tmp/x", Err: syscall.ENOSPC}, true},
		{"not a directory", &os.LinkError{Op: "rename", Old: "a", New: "b/c", Err: syscall.ENOTDIR}, true},
		{"busy file is transient", &os.PathError{Op: "rename", Path: "/tmp/x", Err: syscall.EBUSY}, false},
		{"interrupted is transient", syscall.EINTR, false},
		{"wrapped not exist", fmt.Errorf("export: %w", fs.ErrNotExist), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermanentError(tt.err); got != tt.expected {
				t.Errorf("IsPermanentError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

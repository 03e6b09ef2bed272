package testutil

import (
	"errors"
	"fmt"
	"testing"
)

// errMockWrapped is a static error for testing that non-wrapped errors don't match sentinels.
var errMockWrapped = errors.New("wrapped: network error")

func TestMockErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrMockNotFound", ErrMockNotFound, "not found"},
		{"ErrMockNetwork", ErrMockNetwork, "network error"},
		{"ErrMockUnauthorized", ErrMockUnauthorized, "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("%s.Error() = %q, want %q", tt.name, tt.err.Error(), tt.want)
			}
		})
	}
}

func TestMockErrorsAreSentinels(t *testing.T) {
	wrapped := fmt.Errorf("tracker call: %w", ErrMockNetwork)
	if !errors.Is(wrapped, ErrMockNetwork) {
		t.Error("wrapped error should match ErrMockNetwork")
	}
	if errors.Is(errMockWrapped, ErrMockNetwork) {
		t.Error("unrelated error with same text should not match ErrMockNetwork")
	}
}

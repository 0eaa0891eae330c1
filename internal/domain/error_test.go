package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  &Error{Code: EINVALID, Message: "bad input"},
			want: "bad input",
		},
		{
			name: "op and message",
			err:  &Error{Code: EINVALID, Op: "pricing.quote", Message: "bad input"},
			want: "pricing.quote: bad input",
		},
		{
			name: "wrapped error",
			err:  &Error{Code: EINTERNAL, Message: "save failed", Err: fmt.Errorf("connection refused")},
			want: "save failed: connection refused",
		},
		{
			name: "op, message, and wrapped error",
			err:  &Error{Code: EINTERNAL, Op: "invoice.save", Message: "save failed", Err: fmt.Errorf("connection refused")},
			want: "invoice.save: save failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"domain error", Invalid("op", "bad"), EINVALID},
		{"wrapped domain error", fmt.Errorf("context: %w", NotFound("op", "service", "x")), ENOTFOUND},
		{"plain error", errors.New("boom"), EINTERNAL},
		{"conflict sentinel", ErrInvoiceLocked, ECONFLICT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("pq: password authentication failed"), "invoice.save", "failed to save invoice")

	msg := ErrorMessage(err)
	if msg != "An internal error occurred. Please try again later." {
		t.Errorf("internal error message leaked: %q", msg)
	}

	// Non-internal errors keep their message.
	if got := ErrorMessage(Invalid("op", "quantity must be positive")); got != "quantity must be positive" {
		t.Errorf("ErrorMessage() = %q", got)
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(ErrConcurrentModification, ECONFLICT) {
		t.Error("expected ErrConcurrentModification to have code ECONFLICT")
	}
	if IsCode(Invalid("op", "bad"), ECONFLICT) {
		t.Error("did not expect EINVALID error to match ECONFLICT")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := Internal(inner, "op", "wrapped")

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

package failure_test

import (
	"errors"
	"fmt"
	"hotel/shared/failure"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		kind    failure.Kind
		message string
	}{
		{
			name:    "BadRequestFromString",
			err:     failure.BadRequestFromString("custom bad request"),
			code:    http.StatusBadRequest,
			kind:    failure.KindValidation,
			message: "custom bad request",
		},
		{
			name:    "Validation",
			err:     failure.Validation("check_out must be after check_in", "check_out"),
			code:    http.StatusBadRequest,
			kind:    failure.KindValidation,
			message: "check_out must be after check_in",
		},
		{
			name:    "Unauthorized",
			err:     failure.Unauthorized("token expired"),
			code:    http.StatusUnauthorized,
			kind:    failure.KindUnauthorized,
			message: "token expired",
		},
		{
			name:    "NotFound",
			err:     failure.NotFound("room not found"),
			code:    http.StatusNotFound,
			kind:    failure.KindNotFound,
			message: "room not found",
		},
		{
			name:    "Conflict",
			err:     failure.Conflict("room number already exists"),
			code:    http.StatusConflict,
			kind:    failure.KindConflict,
			message: "room number already exists",
		},
		{
			name:    "TerminalState",
			err:     failure.TerminalState("invoice already paid"),
			code:    http.StatusUnprocessableEntity,
			kind:    failure.KindTerminalState,
			message: "invoice already paid",
		},
		{
			name:    "Forbidden",
			err:     failure.Forbidden("Access denied"),
			code:    http.StatusForbidden,
			kind:    failure.KindForbidden,
			message: "Access denied",
		},
		{
			name:    "Unimplemented",
			err:     failure.Unimplemented("Refund"),
			code:    http.StatusNotImplemented,
			kind:    failure.KindUnimplemented,
			message: "Refund",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.err.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", tt.err)
			}

			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}

			if f.Kind != tt.kind {
				t.Errorf("expected kind to be %s, got %s", tt.kind, f.Kind)
			}

			if f.Message != tt.message {
				t.Errorf("expected message to be %q, got %q", tt.message, f.Message)
			}
		})
	}
}

func TestBadRequestAndInternalError_Nil(t *testing.T) {
	if err := failure.BadRequest(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	if err := failure.InternalError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidation_Fields(t *testing.T) {
	err := failure.Validation("invalid stay", "check_in", "check_out")

	var f *failure.Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *failure.Failure, got %T", err)
	}

	if len(f.Fields) != 2 || f.Fields[0] != "check_in" || f.Fields[1] != "check_out" {
		t.Errorf("unexpected fields %v", f.Fields)
	}
}

func TestConflictWithDetails(t *testing.T) {
	type blocking struct{ ID string }

	err := failure.ConflictWithDetails("invoice exists", blocking{ID: "inv-1"})

	var f *failure.Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *failure.Failure, got %T", err)
	}

	details, ok := f.Details.(blocking)
	if !ok || details.ID != "inv-1" {
		t.Errorf("expected details to carry the blocking invoice, got %#v", f.Details)
	}
}

func TestTransactionAborted(t *testing.T) {
	cause := errors.New("connection reset")
	err := failure.TransactionAborted("booking.create", cause)

	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through errors.Is")
	}

	if failure.GetCode(err) != http.StatusInternalServerError {
		t.Errorf("expected code 500, got %d", failure.GetCode(err))
	}

	if !failure.Is(err, failure.KindTransactionAborted) {
		t.Error("expected transaction aborted kind")
	}

	var f *failure.Failure
	if errors.As(err, &f) && f.Message != "transaction booking.create aborted" {
		t.Errorf("unexpected message %q", f.Message)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("failed to create booking: %w", failure.NotFound("room not found")),
			expected: http.StatusNotFound,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestGetKind(t *testing.T) {
	if kind := failure.GetKind(errors.New("boom")); kind != failure.KindInternal {
		t.Errorf("expected internal kind for foreign errors, got %s", kind)
	}

	wrapped := fmt.Errorf("pay: %w", failure.TerminalState("invoice already paid"))
	if kind := failure.GetKind(wrapped); kind != failure.KindTerminalState {
		t.Errorf("expected terminal_state, got %s", kind)
	}
}

package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"lodge/shared/failure"
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

func TestDomainFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{
			name: "Validation",
			err:  failure.Validation("check-out must be after check-in"),
			code: http.StatusBadRequest,
			kind: failure.KindValidation,
		},
		{
			name: "RoomUnavailable",
			err:  failure.RoomUnavailable("room is not available for the requested dates"),
			code: http.StatusConflict,
			kind: failure.KindRoomUnavailable,
		},
		{
			name: "InvalidStateTransition",
			err:  failure.InvalidStateTransition("checked_out", "confirmed"),
			code: http.StatusConflict,
			kind: failure.KindInvalidStateTransition,
		},
		{
			name: "CancellationNotAllowed",
			err:  failure.CancellationNotAllowed("cancellation window has passed"),
			code: http.StatusUnprocessableEntity,
			kind: failure.KindCancellationNotAllowed,
		},
		{
			name: "ConcurrentModification",
			err:  failure.ConcurrentModification("booking"),
			code: http.StatusConflict,
			kind: failure.KindConcurrentModification,
		},
		{
			name: "NotFound",
			err:  failure.NotFound("booking not found"),
			code: http.StatusNotFound,
			kind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if failure.GetCode(tt.err) != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, failure.GetCode(tt.err))
			}

			if failure.GetKind(tt.err) != tt.kind {
				t.Errorf("expected kind to be %s, got %s", tt.kind, failure.GetKind(tt.err))
			}

			if !failure.IsKind(tt.err, tt.kind) {
				t.Errorf("expected IsKind to report %s", tt.kind)
			}
		})
	}
}

func TestGetKind_WrappedError(t *testing.T) {
	err := fmt.Errorf("failed to cancel booking: %w", failure.CancellationNotAllowed("terminal booking"))

	if !failure.IsKind(err, failure.KindCancellationNotAllowed) {
		t.Errorf("expected wrapped error to keep its kind, got %s", failure.GetKind(err))
	}
}

func TestInvalidStateTransition_Message(t *testing.T) {
	err := failure.InvalidStateTransition("pending", "checked_in")

	expected := "cannot transition booking from pending to checked_in"
	if err.Error() != expected {
		t.Errorf("expected message %q, got %q", expected, err.Error())
	}
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "with error",
			input:    errors.New("validation failed"),
			expected: &failure.Failure{Code: http.StatusBadRequest, Message: "validation failed"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
			} else {
				f, ok := result.(*failure.Failure)
				if !ok {
					t.Errorf("expected result to be *failure.Failure, got %T", result)
				} else {
					expectedF := tt.expected.(*failure.Failure)
					if f.Code != expectedF.Code || f.Message != expectedF.Message {
						t.Errorf("expected %+v, got %+v", expectedF, f)
					}
				}
			}
		})
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
			input:    failure.BadRequestFromString("test"),
			expected: http.StatusBadRequest,
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

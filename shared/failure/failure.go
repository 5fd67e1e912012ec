package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable failure kinds. Handlers map the kind to an HTTP status code,
// callers branch on it with IsKind instead of string-matching messages.
const (
	KindValidation             = "validation"
	KindRoomUnavailable        = "room_unavailable"
	KindInvalidStateTransition = "invalid_state_transition"
	KindCancellationNotAllowed = "cancellation_not_allowed"
	KindConcurrentModification = "concurrent_modification"
	KindNotFound               = "not_found"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// Validation returns a new Failure for malformed input: inverted or zero-length
// date ranges, occupancy over capacity, unparseable fields.
func Validation(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// RoomUnavailable returns a new Failure for a stay that conflicts with an
// occupied or blocked interval, detected at check time or at commit time.
func RoomUnavailable(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindRoomUnavailable,
		Message: msg,
	}
}

// InvalidStateTransition returns a new Failure for a lifecycle transition
// attempted from a state that does not permit it.
func InvalidStateTransition(from, to string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindInvalidStateTransition,
		Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to),
	}
}

// CancellationNotAllowed returns a new Failure for a cancellation requested
// outside the policy window or on a terminal booking.
func CancellationNotAllowed(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindCancellationNotAllowed,
		Message: msg,
	}
}

// ConcurrentModification returns a new Failure for an optimistic-concurrency
// version mismatch. The caller must reload and retry.
func ConcurrentModification(entityName string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConcurrentModification,
		Message: fmt.Sprintf("%s was modified concurrently, reload and retry", entityName),
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the failure kind of an error, or an empty string for errors
// that carry no kind.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}

// IsKind reports whether the error is a Failure of the given kind.
func IsKind(err error, kind string) bool {
	return GetKind(err) == kind
}

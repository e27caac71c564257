package apperror

import "errors"

// Reason is a machine-readable rejection kind that stays stable across transports.
type Reason string

const (
	ReasonInvalidInput       Reason = "invalid_input"
	ReasonInvalidSlot        Reason = "invalid_slot"
	ReasonPastBooking        Reason = "past_booking"
	ReasonCalendarRestricted Reason = "calendar_restricted"
	ReasonNotFound           Reason = "not_found"
	ReasonConflict           Reason = "conflict"
	ReasonForbidden          Reason = "forbidden"
	ReasonUnauthorized       Reason = "unauthorized"
	ReasonInternal           Reason = "internal"
)

// AppError is a custom error type that includes an HTTP status code and a rejection reason.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Reason  Reason // Machine-readable rejection kind
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same sentinel, so a wrapped copy created by
// Wrap still matches the original with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e == t || (e.Reason == t.Reason && e.Message == t.Message && e.Code == t.Code)
}

// New creates a new AppError with a status code, reason and message.
func New(code int, reason Reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// Wrap creates a copy of a sentinel AppError carrying an underlying cause.
func Wrap(sentinel *AppError, err error) *AppError {
	return &AppError{
		Code:    sentinel.Code,
		Reason:  sentinel.Reason,
		Message: sentinel.Message,
		Err:     err,
	}
}

// ReasonOf returns the rejection reason carried by err, or ReasonInternal when
// err is not an AppError.
func ReasonOf(err error) Reason {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ReasonInternal
}

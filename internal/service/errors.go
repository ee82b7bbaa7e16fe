package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrSessionNotFound indicates the draft session id is unknown or expired.
	ErrSessionNotFound = errors.New("draft session not found")
	// ErrSessionClosed indicates the session was torn down while an operation was in flight.
	ErrSessionClosed = errors.New("draft session closed")
	// ErrSubmissionInFlight indicates a submission is already running for the session.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// FieldErrors maps field names to human-readable validation messages. It is
// returned both for local validation failures and for server-side rejections
// that can be attributed to a field, so the dialog renders them through one path.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "validation failed"
}

// AsFieldErrors unwraps err into a FieldErrors map when possible.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields, true
	}
	return nil, false
}

// fieldErrorsFrom converts struct validation failures into per-field messages.
// The second return is false when err is not a validator error.
func fieldErrorsFrom(err error) (FieldErrors, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}
	fields := FieldErrors{}
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return fields, true
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "datetime":
		return "must be a date formatted YYYY-MM-DD"
	case "gte":
		return "must be at least " + fieldErr.Param()
	case "lte":
		return "must be at most " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param() + " characters"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}

package errs

import (
	"errors"
	"fmt"
)

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// InvalidRateError is returned when a rate cannot be parsed as a finite number.
type InvalidRateError struct {
	ErrorMessage
	Field string
	Raw   string
}

// OutOfRangeError is returned when a parsed rate falls outside its bounds.
type OutOfRangeError struct {
	ErrorMessage
	Field string
	Value string
	Min   string
	Max   string
}

type NoTargetsError struct {
	ErrorMessage
}

// InvalidInputError marks a monthly payment that cannot be computed.
type InvalidInputError struct {
	ErrorMessage
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewInvalidRateError(field, raw string) *InvalidRateError {
	msg := fmt.Sprintf("invalid rate %q", raw)
	if field != "" {
		msg = fmt.Sprintf("%s: invalid rate %q", field, raw)
	}
	return &InvalidRateError{
		ErrorMessage: ErrorMessage{Message: msg},
		Field:        field,
		Raw:          raw,
	}
}

func NewOutOfRangeError(field, value, min, max string) *OutOfRangeError {
	msg := fmt.Sprintf("rate %s is outside [%s, %s]", value, min, max)
	if field != "" {
		msg = field + ": " + msg
	}
	return &OutOfRangeError{
		ErrorMessage: ErrorMessage{Message: msg},
		Field:        field,
		Value:        value,
		Min:          min,
		Max:          max,
	}
}

func NewNoTargetsError() *NoTargetsError {
	return &NoTargetsError{
		ErrorMessage: ErrorMessage{Message: "at least one target province is required"},
	}
}

func NewInvalidInputError(message string) *InvalidInputError {
	return &InvalidInputError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

// WithField prefixes the field name onto a rate error raised without one.
func WithField(err error, field string) error {
	switch e := err.(type) {
	case *InvalidRateError:
		return NewInvalidRateError(field, e.Raw)
	case *OutOfRangeError:
		return NewOutOfRangeError(field, e.Value, e.Min, e.Max)
	}
	return err
}

// IsValidation reports whether err belongs to the input validation family.
func IsValidation(err error) bool {
	var (
		v  *ValidationError
		ir *InvalidRateError
		or *OutOfRangeError
		nt *NoTargetsError
	)
	return errors.As(err, &v) || errors.As(err, &ir) || errors.As(err, &or) || errors.As(err, &nt)
}

// Package ucerr holds the error values shared by every usecase package.
package ucerr

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// FieldError describes why one input field was rejected. Reason is a short
// rule name such as "required" or "min". Message is safe to show clients.
type FieldError struct {
	Field   string
	Reason  string
	Message string
}

func NewFieldError(field, reason, message string) *FieldError {
	return &FieldError{Field: field, Reason: reason, Message: message}
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return e.Field + ": " + e.Reason
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// Required is the FieldError for an absent mandatory field.
func Required(field string) *FieldError {
	return NewFieldError(field, "required", "Missing required fields")
}

// AsFieldError returns the FieldError in err's chain, if any.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

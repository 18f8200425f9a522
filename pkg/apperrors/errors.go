package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
)

// FieldError is a validation failure attached to a single form field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message, Err: ErrValidationFailed}
}

// NewConflictError is a FieldError that also matches ErrAlreadyExists.
func NewConflictError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message, Err: ErrAlreadyExists}
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrValidationFailed {
		return []error{ErrValidationFailed}
	}
	return []error{e.Err, ErrValidationFailed}
}

// AsFieldError unwraps err to a *FieldError when it carries one.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

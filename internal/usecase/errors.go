package usecase

import (
	"errors"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/validation"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeDatabase   = "DATABASE_ERROR"
)

// DomainError is a failure the caller can act on: bad input, a missing
// record or a state conflict.
type DomainError struct {
	Code    string
	Message string
	Fields  []validation.FieldError
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewValidationError(fields []validation.FieldError) *DomainError {
	return &DomainError{Code: CodeValidation, Message: "Validation failed", Fields: fields}
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps infrastructure failures. Message is safe to log, not
// to show.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// classify turns store sentinels into DomainErrors and anything else into a
// TechnicalError tagged with op.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrLeadNotFound),
		errors.Is(err, entity.ErrCategoryNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		return &DomainError{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, entity.ErrLeadNotAssignable),
		errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrClientInactive),
		errors.Is(err, entity.ErrEmailAlreadyExists):
		return &DomainError{Code: CodeConflict, Message: err.Error()}
	case errors.Is(err, entity.ErrEmptyPatch):
		return NewValidationError([]validation.FieldError{{Field: validation.AnyField, Message: "at least one field must be provided"}})
	}
	return &TechnicalError{Code: CodeDatabase, Message: op, Err: err}
}

package service

import (
	"errors"
	"fmt"

	"go-inventory-history/internal/repository"
	"go-inventory-history/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrProductNotFound   = repository.ErrProductNotFound
	ErrUserNotFound      = repository.ErrUserNotFound
	ErrDuplicateSKU      = repository.ErrDuplicateSKU
	ErrDuplicateUsername = repository.ErrDuplicateUsername
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// ValidationError carries every failed field of a rejected request.
type ValidationError struct {
	Message string
	Errors  []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	first := e.Errors[0]
	return fmt.Sprintf("%s: field '%s' failed on '%s'", e.Message, first.FailedField, first.Tag)
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Message: "validation failed", Errors: errs}
	}
	return nil
}

func invalidField(field, tag, message string) error {
	return &ValidationError{
		Message: message,
		Errors:  []*validator.ErrorResponse{{FailedField: field, Tag: tag}},
	}
}

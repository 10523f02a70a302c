package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Every service operation resolves to a plain value or one of the error
// types below. The HTTP layer matches them with errors.As / errors.Is and
// never inspects error strings.

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string // "required" or "invalid"
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NotFoundError reports that no record matches the given identifier.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ErrStoreUnavailable marks infrastructure failures in the data store.
// Details are wrapped for logs but never shown to clients.
var ErrStoreUnavailable = errors.New("store unavailable")

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// asValidationError translates a validator.Struct failure into the typed
// contract, naming the first offending field.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fieldErr := verrs[0]
		field := strings.ToLower(fieldErr.Field())
		if fieldErr.Tag() == "required" {
			return &ValidationError{Field: field, Reason: "required"}
		}
		return &ValidationError{Field: field, Reason: "invalid"}
	}
	return err
}

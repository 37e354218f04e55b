// Package apperr defines the error taxonomy shared by all services.
// Handlers map these onto HTTP statuses; everything else is treated as
// a dependency failure.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrValidation   = errors.New("validation failed")
	ErrDependency   = errors.New("dependency failure")
)

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func Duplicate(what string) error {
	return fmt.Errorf("%s: %w", what, ErrDuplicateKey)
}

func Validation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func Dependency(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrDependency)
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool { return errors.Is(err, ErrDuplicateKey) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }

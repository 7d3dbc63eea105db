// Package apperror holds the error kinds shared by the query, mapping and
// shaping layers. Client errors are recoverable at the HTTP boundary; the
// others are programming or configuration errors.
package apperror

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks a nil or empty required argument.
var ErrInvalidArgument = errors.New("invalid argument")

// ConfigurationError reports a missing or ambiguous property mapping.
type ConfigurationError struct {
	DTO     string
	Entity  string
	Matches int
}

func (e *ConfigurationError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("no property mapping registered for %s -> %s", e.DTO, e.Entity)
	}
	return fmt.Sprintf("ambiguous property mapping for %s -> %s: %d registrations", e.DTO, e.Entity, e.Matches)
}

// UnknownSortFieldError reports an order-by token with no mapping.
type UnknownSortFieldError struct {
	Field string
}

func (e *UnknownSortFieldError) Error() string {
	return fmt.Sprintf("unknown sort field %q", e.Field)
}

// UnknownFieldError reports a requested field that the type does not expose.
type UnknownFieldError struct {
	Field string
	Type  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("property %q not found on type %s", e.Field, e.Type)
}

// InvalidArgument wraps ErrInvalidArgument with the argument name.
func InvalidArgument(name string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, name)
}

// IsClientError reports whether err was caused by client input.
func IsClientError(err error) bool {
	var sortErr *UnknownSortFieldError
	var fieldErr *UnknownFieldError
	return errors.As(err, &sortErr) || errors.As(err, &fieldErr)
}

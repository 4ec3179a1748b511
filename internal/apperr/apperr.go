// Package apperr defines the error kinds shared by the scoping, filter,
// aggregation and tool input layers, and their HTTP status mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingScope is returned when an owned-resource operation is
	// invoked without an account parameter.
	ErrMissingScope = errors.New("account parameter is required")

	// ErrInvalidScope is returned when the account parameter does not
	// resolve to an active account.
	ErrInvalidScope = errors.New("invalid or inactive account")

	// ErrInvalidFilter is returned for malformed filter constraint values.
	ErrInvalidFilter = errors.New("invalid filter value")

	// ErrInvalidDateRange is returned for out-of-range report periods.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrMalformedArray is returned when an array parameter is not a
	// valid JSON array.
	ErrMalformedArray = errors.New("malformed array input")

	// ErrInvalidNumber is returned when an array element cannot be
	// parsed as a number.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrMissingInput is returned when no recognized input encoding is
	// present.
	ErrMissingInput = errors.New("missing input")

	// ErrNotFound covers both absent ids and ids owned by another
	// account. The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers schema-level field violations.
	ErrValidation = errors.New("validation failed")
)

// Wrap annotates a kind with detail while keeping errors.Is matching.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, kind)...)
}

// Status maps an error to its HTTP status code. Every input, scope and
// validation kind maps to 400, ownership misses to 404, anything
// unrecognized to 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingScope),
		errors.Is(err, ErrInvalidScope),
		errors.Is(err, ErrInvalidFilter),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrMalformedArray),
		errors.Is(err, ErrInvalidNumber),
		errors.Is(err, ErrMissingInput),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

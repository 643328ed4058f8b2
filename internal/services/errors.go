package services

import "errors"

// Sentinel error kinds for the catalog operations. Call sites wrap them with
// the offending id or field so callers can both match with errors.Is and read
// what went wrong.
var (
	// ErrValidation marks a malformed payload (empty required field or
	// non-positive price). Nothing is written when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a lookup for an id (or single-result search) with no
	// matching record.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a mutation attempted by a caller that does not
	// own the record.
	ErrUnauthorized = errors.New("unauthorized")
)

package familytree

import "errors"

var (
	// ErrNotFound indicates a referenced person id has no record.
	ErrNotFound = errors.New("person not found")
	// ErrBadRequest indicates a malformed request, such as a merge whose
	// survivor is not part of the duplicate set or a missing required field.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized indicates the caller's identity does not permit the
	// operation. The admin flag itself is supplied by the auth layer.
	ErrUnauthorized = errors.New("unauthorized")
)

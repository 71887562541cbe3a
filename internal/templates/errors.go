package templates

import "errors"

var (
	// ErrNotFound indicates no template source exists for the id.
	ErrNotFound = errors.New("template not found")

	// ErrInvalidID indicates the id is not a positive integer.
	ErrInvalidID = errors.New("invalid template id")
)

package roster

import "errors"

var (
	// ErrMissingField is returned when a required candidate field is blank.
	ErrMissingField = errors.New("missing required field")
	// ErrEmptyName is returned when a rename would leave a blank name.
	ErrEmptyName = errors.New("candidate name cannot be empty")
)

package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound    = errors.New("candidate not found")
	ErrDuplicateID = errors.New("duplicate candidate id")
	ErrPersist     = errors.New("persist election state")
)

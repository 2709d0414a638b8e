package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrBackend       = errors.New("storage backend failed")
	ErrClosed        = errors.New("storage closed")
)

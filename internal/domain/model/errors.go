package model

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownOffice = errors.New("unknown office")
)

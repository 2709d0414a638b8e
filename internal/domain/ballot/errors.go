package ballot

import "errors"

// Sentinel kinds for ballot session errors.
var (
	ErrLocked               = errors.New("ballot already submitted")
	ErrIncompleteBallot     = errors.New("make a selection or abstain for every office before submitting")
	ErrNotPending           = errors.New("ballot is not awaiting confirmation")
	ErrAwaitingConfirmation = errors.New("ballot is awaiting confirmation")
	ErrInvalidChoice        = errors.New("choice is not a candidate for this office")
)

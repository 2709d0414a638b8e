package insight

import "errors"

// Returned by Request and Go. All other failures become fallback text.
var (
	ErrBusy        = errors.New("an analysis request is already in flight")
	ErrRateLimited = errors.New("analysis rate limit exceeded")
)

// Generator failures. They never leave the package.
var (
	errMissingCredential = errors.New("no API key configured")
	errUpstreamStatus    = errors.New("unexpected upstream status")
)

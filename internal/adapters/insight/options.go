package insight

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/ballot/pkg/logger"
)

// Option configures a Requester.
type Option func(*Requester)

// WithParams sets temperature and top-p.
func WithParams(p Params) Option {
	return func(r *Requester) {
		r.params = p
	}
}

// WithTimeout bounds a single generator call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(r *Requester) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRatePerMinute limits how many requests may start per minute, with a
// burst of the same size. Zero or less disables the limit.
func WithRatePerMinute(n int) Option {
	return func(r *Requester) {
		if n <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// WithBreaker sets the consecutive failures that open the circuit and how
// long it stays open.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(r *Requester) {
		if failures > 0 {
			r.tripAfter = failures
		}
		if cooldown > 0 {
			r.cooldown = cooldown
		}
	}
}

// WithLogger sets the requester logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Requester) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Requester) {
		if now != nil {
			r.now = now
		}
	}
}

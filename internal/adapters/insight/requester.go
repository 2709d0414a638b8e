// Package insight asks a generative model for commentary on the current
// tallies.
//
// Every failure mode below the Requester (missing key, transport errors,
// bad status, open circuit, timeout) is reported as FallbackError text. The
// caller only ever sees ErrBusy or ErrRateLimited.
package insight

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/pkg/logger"
	"github.com/okian/ballot/pkg/metrics"
)

// Defaults applied by NewRequester.
const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.8
	DefaultTimeout     = 30 * time.Second

	defaultTripAfter = 3
	defaultCooldown  = 30 * time.Second
)

// Outcome labels recorded per request.
const (
	outcomeOK          = "ok"
	outcomeEmpty       = "empty"
	outcomeError       = "error"
	outcomeBusy        = "busy"
	outcomeRateLimited = "rate_limited"
)

// Report is the most recent analysis.
type Report struct {
	Text      string    `json:"text"`
	Busy      bool      `json:"busy"`
	Fallback  bool      `json:"fallback"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Requester serialises analysis requests: at most one is in flight.
type Requester struct {
	gen       Generator
	params    Params
	timeout   time.Duration
	limiter   *rate.Limiter
	tripAfter uint32
	cooldown  time.Duration
	breaker   *gobreaker.CircuitBreaker
	logger    logger.Logger
	now       func() time.Time

	busy   atomic.Bool
	mu     sync.RWMutex
	latest Report
}

// NewRequester wraps gen.
func NewRequester(gen Generator, opts ...Option) *Requester {
	r := &Requester{
		gen:       gen,
		params:    Params{Temperature: DefaultTemperature, TopP: DefaultTopP},
		timeout:   DefaultTimeout,
		tripAfter: defaultTripAfter,
		cooldown:  defaultCooldown,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("insight")
	}

	trip := r.tripAfter
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "insight",
		Timeout: r.cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn(context.Background(), "circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return r
}

// Request runs one analysis synchronously and returns its text.
func (r *Requester) Request(ctx context.Context, candidates []model.Candidate) (string, error) {
	if err := r.acquire(); err != nil {
		return "", err
	}
	defer r.busy.Store(false)
	return r.run(ctx, candidates).Text, nil
}

// Go starts an analysis in the background; its result becomes Latest.
// candidates must not be modified by the caller afterwards.
func (r *Requester) Go(ctx context.Context, candidates []model.Candidate) error {
	if err := r.acquire(); err != nil {
		return err
	}
	go func() {
		defer r.busy.Store(false)
		r.run(ctx, candidates)
	}()
	return nil
}

// Latest returns the last finished report with the current busy flag.
func (r *Requester) Latest() Report {
	r.mu.RLock()
	rep := r.latest
	r.mu.RUnlock()
	rep.Busy = r.busy.Load()
	return rep
}

// Busy reports whether a request is in flight.
func (r *Requester) Busy() bool { return r.busy.Load() }

func (r *Requester) acquire() error {
	if !r.busy.CompareAndSwap(false, true) {
		metrics.RecordInsightRequest(outcomeBusy)
		return ErrBusy
	}
	if r.limiter != nil && !r.limiter.Allow() {
		r.busy.Store(false)
		metrics.RecordInsightRequest(outcomeRateLimited)
		return ErrRateLimited
	}
	return nil
}

func (r *Requester) run(ctx context.Context, candidates []model.Candidate) Report {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := BuildPrompt(candidates)
	start := time.Now()
	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.gen.Generate(ctx, prompt, r.params)
	})
	metrics.RecordInsightLatency(float64(time.Since(start).Milliseconds()))

	rep := Report{UpdatedAt: r.now()}
	switch {
	case err != nil:
		r.logger.Warn(ctx, "analysis request failed", logger.Error(err))
		metrics.RecordInsightRequest(outcomeError)
		rep.Text, rep.Fallback = FallbackError, true
	case strings.TrimSpace(res.(string)) == "":
		metrics.RecordInsightRequest(outcomeEmpty)
		rep.Text, rep.Fallback = FallbackEmpty, true
	default:
		metrics.RecordInsightRequest(outcomeOK)
		rep.Text = res.(string)
	}

	r.mu.Lock()
	r.latest = rep
	r.mu.Unlock()
	return rep
}

// Package simulate generates demo traffic by bumping random vote counters.
// It bypasses the ballot flow entirely and is meant for dashboards only.
package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/pkg/logger"
	"github.com/okian/ballot/pkg/metrics"
)

const (
	// DefaultInterval is the pause between simulated votes.
	DefaultInterval = 1500 * time.Millisecond
	// voteProbability is the chance a tick actually casts a vote.
	voteProbability = 0.9

	stopTimeout = 5 * time.Second
)

// Target is what the simulator votes into.
type Target interface {
	List(ctx context.Context) []model.Candidate
	AddVote(ctx context.Context, id string) error
}

// Simulator runs Step on a ticker between Start and Stop.
type Simulator struct {
	target   Target
	interval time.Duration
	logger   logger.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithInterval sets the tick period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithRand supplies the random source, for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithLogger sets the simulator logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a stopped simulator over t.
func New(t Target, opts ...Option) *Simulator {
	s := &Simulator{
		target:   t,
		interval: DefaultInterval,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("simulate")
	}
	return s
}

// Step picks a random office and, nine times in ten, adds one vote to a
// random candidate of it. It returns the id voted for, or "" when the tick
// was skipped or the office has no candidates.
func (s *Simulator) Step(ctx context.Context) (string, error) {
	choice := s.pick(s.target.List(ctx))
	if choice == "" {
		return "", nil
	}
	if err := s.target.AddVote(ctx, choice); err != nil {
		return "", fmt.Errorf("simulated vote for %s: %w", choice, err)
	}
	metrics.RecordSimulatedVote()
	return choice, nil
}

func (s *Simulator) pick(all []model.Candidate) string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	offices := model.Offices()
	office := offices[s.rng.IntN(len(offices))]
	var pool []string
	for _, c := range all {
		if c.Office == office {
			pool = append(pool, c.ID)
		}
	}
	if len(pool) == 0 {
		return ""
	}
	if s.rng.Float64() >= voteProbability {
		return ""
	}
	return pool[s.rng.IntN(len(pool))]
}

// Start launches the tick loop. It is a no-op if already running.
func (s *Simulator) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(ctx, s.stop, s.done)
	s.logger.Info(ctx, "simulation started", logger.Duration("interval", s.interval))
}

// Stop halts the loop and waits for the current tick to finish.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	select {
	case <-done:
	case <-time.After(stopTimeout):
		s.logger.Warn(context.Background(), "simulation stop timed out")
	}
	s.logger.Info(context.Background(), "simulation stopped")
}

// Status describes the simulator for the API.
type Status struct {
	Running    bool  `json:"running"`
	IntervalMS int64 `json:"interval_ms"`
}

// Status reports whether the loop runs and at which period.
func (s *Simulator) Status() Status {
	return Status{Running: s.Running(), IntervalMS: s.interval.Milliseconds()}
}

// Running reports whether the tick loop is active.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Simulator) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.stop == stop {
				s.running = false
			}
			s.mu.Unlock()
			return
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.Step(ctx); err != nil {
				s.logger.Error(ctx, "simulated vote failed", logger.Error(err))
			}
		}
	}
}

// Package service composes the candidate store, ballot session, roster
// admin, insight requester and vote simulator behind one lock. It
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/ballot/internal/adapters/insight"
	"github.com/okian/ballot/internal/adapters/repository"
	"github.com/okian/ballot/internal/domain/ballot"
	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/internal/domain/roster"
	"github.com/okian/ballot/internal/domain/tally"
	"github.com/okian/ballot/internal/simulate"
	"github.com/okian/ballot/pkg/logger"
	"github.com/okian/ballot/pkg/metrics"
)

// Roster change labels recorded in metrics.
const (
	changeAdd    = "add"
	changeRename = "rename"
	changeRemove = "remove"
)

// Service serialises every election mutation against every read. One
// Service is one voting kiosk: it owns exactly one ballot session.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	session   *ballot.Session
	roster    *roster.Admin
	requester *insight.Requester
	sim       *simulate.Simulator

	simInterval time.Duration
	simOpts     []simulate.Option
	rosterOpts  []roster.Option

	// State
	started bool
	ctx     context.Context
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRequester sets the insight requester. Without one, every analysis
// returns the error fallback.
func WithRequester(r *insight.Requester) Option {
	return func(s *Service) {
		if r != nil {
			s.requester = r
		}
	}
}

// WithSimulationInterval sets the simulator tick period.
func WithSimulationInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.simInterval = d
		}
	}
}

// WithSimulatorOptions passes extra options to the simulator.
func WithSimulatorOptions(opts ...simulate.Option) Option {
	return func(s *Service) {
		s.simOpts = append(s.simOpts, opts...)
	}
}

// WithRosterOptions passes extra options to the roster admin.
func WithRosterOptions(opts ...roster.Option) Option {
	return func(s *Service) {
		s.rosterOpts = append(s.rosterOpts, opts...)
	}
}

// New builds a service over a loaded store. The session starts locked if
// the store says a ballot was already confirmed.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		simInterval: simulate.DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.requester == nil {
		s.requester = insight.NewRequester(insight.NewGemini("", "", "", nil))
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.session = ballot.NewSession(store, store.Voted(s.ctx))
	s.roster = roster.NewAdmin(store, s.rosterOpts...)
	simOpts := append([]simulate.Option{
		simulate.WithInterval(s.simInterval),
		simulate.WithLogger(s.logger.Named("simulate")),
	}, s.simOpts...)
	s.sim = simulate.New(simTarget{s}, simOpts...)
	return s
}

// Start marks the service running. simulation turns the vote simulator on.
func (s *Service) Start(ctx context.Context, simulation bool) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	if simulation {
		s.sim.Start(s.ctx)
	}
	s.logger.Info(ctx, "ballot service started",
		logger.Int("candidates", s.store.Count(ctx)),
		logger.String("state", string(s.session.State())),
		logger.Bool("simulation", simulation),
	)
	return nil
}

// Stop halts background work. In-flight analyses are cancelled.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	s.sim.Stop()
	s.cancel()
	s.logger.Info(context.Background(), "ballot service stopped")
}

// Candidates returns the roster, optionally restricted to one office.
func (s *Service) Candidates(ctx context.Context, office model.Office) []model.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.List(ctx, office)
}

// Ballot returns the session snapshot.
func (s *Service) Ballot(_ context.Context) ballot.Snapshot {
	return s.session.Snapshot()
}

// Select records a choice on the session.
func (s *Service) Select(ctx context.Context, office model.Office, choice string) (ballot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.session.Select(ctx, office, choice); err != nil {
		return ballot.Snapshot{}, err
	}
	return s.session.Snapshot(), nil
}

// ClearSelections empties the session while editing.
func (s *Service) ClearSelections(_ context.Context) (ballot.Snapshot, error) {
	if err := s.session.ClearSelections(); err != nil {
		return ballot.Snapshot{}, err
	}
	return s.session.Snapshot(), nil
}

// RequestSubmit asks for confirmation of a complete ballot.
func (s *Service) RequestSubmit(_ context.Context) (ballot.Snapshot, error) {
	if err := s.session.RequestSubmit(); err != nil {
		return ballot.Snapshot{}, err
	}
	return s.session.Snapshot(), nil
}

// CancelConfirm returns the session to editing.
func (s *Service) CancelConfirm(_ context.Context) (ballot.Snapshot, error) {
	if err := s.session.CancelConfirm(); err != nil {
		return ballot.Snapshot{}, err
	}
	return s.session.Snapshot(), nil
}

// ConfirmSubmit tallies the pending ballot and locks the session.
func (s *Service) ConfirmSubmit(ctx context.Context) (ballot.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.session.ConfirmSubmit(ctx)
	if err != nil {
		return ballot.Receipt{}, err
	}

	metrics.RecordBallotSubmitted()
	for office := range r.Votes {
		metrics.RecordVote(office.String())
	}
	for _, office := range r.Abstentions {
		metrics.RecordAbstention(office.String())
	}
	s.logger.Info(ctx, "ballot confirmed",
		logger.Int("votes", len(r.Votes)),
		logger.Int("abstentions", len(r.Abstentions)),
	)
	return r, nil
}

// Results returns every derived tally view.
func (s *Service) Results(ctx context.Context) tally.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tally.Summarize(s.store.List(ctx))
}

// OfficeResults returns one office's leaderboard.
func (s *Service) OfficeResults(ctx context.Context, office model.Office) (tally.Standing, error) {
	if !office.Valid() {
		return tally.Standing{}, model.ErrUnknownOffice
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	board := tally.Leaderboard(s.store.List(ctx), office)
	return tally.Standing{Office: office, TotalVotes: tally.TotalVotes(board), Candidates: board}, nil
}

// AddCandidate appends a candidate to the roster.
func (s *Service) AddCandidate(ctx context.Context, nc roster.NewCandidate) (model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.roster.Add(ctx, nc)
	if err != nil {
		return model.Candidate{}, err
	}
	metrics.RecordRosterChange(changeAdd)
	s.logger.Info(ctx, "candidate added", logger.String("id", c.ID), logger.String("office", c.Office.String()))
	return c, nil
}

// RenameCandidate changes a candidate's display name.
func (s *Service) RenameCandidate(ctx context.Context, id, name string) (model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.roster.Rename(ctx, id, name)
	if err != nil {
		return model.Candidate{}, err
	}
	metrics.RecordRosterChange(changeRename)
	return c, nil
}

// RemoveCandidate deletes a candidate and its votes.
func (s *Service) RemoveCandidate(ctx context.Context, id string) (model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.roster.Remove(ctx, id)
	if err != nil {
		return model.Candidate{}, err
	}
	metrics.RecordRosterChange(changeRemove)
	s.logger.Info(ctx, "candidate removed", logger.String("id", c.ID), logger.Int("votes", c.Votes))
	return c, nil
}

// ResetElection restores the seed roster, forgets the voted marker,
// unlocks the session and stops the simulator.
func (s *Service) ResetElection(ctx context.Context) error {
	s.sim.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset election: %w", err)
	}
	s.session.Reset()
	metrics.RecordElectionReset()
	s.logger.Info(ctx, "election reset")
	return nil
}

// StartInsight begins a background analysis of the current tallies.
func (s *Service) StartInsight(ctx context.Context) error {
	s.mu.RLock()
	snapshot := s.store.List(ctx)
	s.mu.RUnlock()
	return s.requester.Go(s.ctx, snapshot)
}

// LatestInsight returns the last analysis and whether one is running.
func (s *Service) LatestInsight(_ context.Context) insight.Report {
	return s.requester.Latest()
}

// SetSimulation starts or stops the vote simulator.
func (s *Service) SetSimulation(ctx context.Context, enabled bool) simulate.Status {
	if enabled {
		s.sim.Start(s.ctx)
	} else {
		s.sim.Stop()
	}
	return s.SimulationStatus(ctx)
}

// SimulationStatus reports the simulator state.
func (s *Service) SimulationStatus(_ context.Context) simulate.Status {
	return s.sim.Status()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cands := s.store.List(ctx)
	total := tally.TotalVotes(cands)

	// Update metrics
	metrics.UpdateRosterSize(len(cands))
	metrics.UpdateTotalVotes(total)

	return map[string]interface{}{
		"started":             s.started,
		"roster_size":         len(cands),
		"total_votes":         total,
		"approx_ballots_cast": tally.ApproxBallotsCast(cands),
		"state":               string(s.session.State()),
		"simulation_running":  s.sim.Running(),
		"insight_busy":        s.requester.Busy(),
	}
}

// simTarget routes simulated votes through the service lock.
type simTarget struct{ s *Service }

func (t simTarget) List(ctx context.Context) []model.Candidate {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.store.List(ctx)
}

func (t simTarget) AddVote(ctx context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.store.AddVote(ctx, id)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/okian/ballot/internal/adapters/storage"
	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/internal/domain/tally"
	"github.com/okian/ballot/pkg/logger"
	"github.com/okian/ballot/pkg/metrics"
)

const votedValue = "true"

// CandidateStore is the Store implementation backed by storage.Blobs.
//
// State changes are computed on a copy, written to the blobs, and only then
// swapped in, so a failed write leaves memory and storage in agreement.
type CandidateStore struct {
	mu         sync.RWMutex
	blobs      storage.Blobs
	candidates []model.Candidate
	voted      bool

	seed   func() []model.Candidate
	logger logger.Logger
}

var _ Store = (*CandidateStore)(nil)

// NewCandidateStore builds a store on blobs. Call Load before use; until
// then it holds the seed roster in memory only.
func NewCandidateStore(blobs storage.Blobs, opts ...Option) *CandidateStore {
	s := &CandidateStore{
		blobs: blobs,
		seed:  model.DefaultRoster,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("repository")
	}
	s.candidates = s.seed()
	return s
}

// Load reads both blobs. A missing key means defaults; a candidate blob that
// fails to decode is logged and replaced by the seed roster.
func (s *CandidateStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.blobs.Get(ctx, KeyCandidates)
	if err != nil {
		metrics.RecordStorageError("get")
		return fmt.Errorf("%w: load %s: %w", ErrPersist, KeyCandidates, err)
	}
	candidates := s.seed()
	if found {
		decoded, derr := decodeCandidates(raw)
		if derr != nil {
			s.logger.Warn(ctx, "discarding unreadable candidate blob", logger.Error(derr))
		} else {
			candidates = decoded
		}
	}

	rawVoted, found, err := s.blobs.Get(ctx, KeyVoted)
	if err != nil {
		metrics.RecordStorageError("get")
		return fmt.Errorf("%w: load %s: %w", ErrPersist, KeyVoted, err)
	}

	s.candidates = candidates
	s.voted = found && string(rawVoted) == votedValue
	s.publishGauges()

	s.logger.Info(ctx, "election state loaded",
		logger.Int("candidates", len(s.candidates)),
		logger.Bool("voted", s.voted),
	)
	return nil
}

// decodeCandidates parses a roster blob, dropping entries that can't be
// placed on a ballot.
func decodeCandidates(raw []byte) ([]model.Candidate, error) {
	var in []model.Candidate
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make([]model.Candidate, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		if c.ID == "" || seen[c.ID] || !c.Office.Valid() {
			continue
		}
		if c.Votes < 0 {
			c.Votes = 0
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out, nil
}

func (s *CandidateStore) List(_ context.Context) []model.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneCandidates(s.candidates)
}

func (s *CandidateStore) Get(_ context.Context, id string) (model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.candidates[i], nil
	}
	return model.Candidate{}, ErrNotFound
}

func (s *CandidateStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.candidates)
}

func (s *CandidateStore) Voted(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voted
}

// RecordBallot applies sel through tally.Apply and sets the voted marker.
// Memory moves only after both blobs are written; a failed marker write puts
// the previous candidate blob back so a retry does not count twice.
func (s *CandidateStore) RecordBallot(ctx context.Context, sel model.Selections) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := tally.Apply(s.candidates, sel)
	if err := s.writeCandidates(ctx, next); err != nil {
		return nil, err
	}
	if err := s.put(ctx, KeyVoted, []byte(votedValue)); err != nil {
		if rerr := s.writeCandidates(ctx, s.candidates); rerr != nil {
			s.logger.Error(ctx, "candidate blob restore failed", logger.Error(rerr))
		}
		return nil, err
	}
	s.candidates = next
	s.voted = true
	s.publishGauges()
	return model.CloneCandidates(next), nil
}

func (s *CandidateStore) Append(ctx context.Context, c model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(c.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	next := append(model.CloneCandidates(s.candidates), c)
	return s.commit(ctx, next)
}

func (s *CandidateStore) Rename(ctx context.Context, id, name string) (model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Candidate{}, ErrNotFound
	}
	next := model.CloneCandidates(s.candidates)
	next[i].Name = name
	if err := s.commit(ctx, next); err != nil {
		return model.Candidate{}, err
	}
	return next[i], nil
}

func (s *CandidateStore) Remove(ctx context.Context, id string) (model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Candidate{}, ErrNotFound
	}
	removed := s.candidates[i]
	next := make([]model.Candidate, 0, len(s.candidates)-1)
	next = append(next, s.candidates[:i]...)
	next = append(next, s.candidates[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return model.Candidate{}, err
	}
	return removed, nil
}

func (s *CandidateStore) AddVote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	next := model.CloneCandidates(s.candidates)
	next[i].Votes++
	return s.commit(ctx, next)
}

// Reset deletes both blobs and reverts to the seed roster. The marker goes
// first so a half-done reset never leaves a locked kiosk without its roster;
// if the roster delete then fails the marker is written back.
func (s *CandidateStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.delete(ctx, KeyVoted); err != nil {
		return err
	}
	if err := s.delete(ctx, KeyCandidates); err != nil {
		if s.voted {
			if rerr := s.put(ctx, KeyVoted, []byte(votedValue)); rerr != nil {
				s.logger.Error(ctx, "voted marker restore failed", logger.Error(rerr))
			}
		}
		return err
	}
	s.candidates = s.seed()
	s.voted = false
	s.publishGauges()
	return nil
}

func (s *CandidateStore) delete(ctx context.Context, key string) error {
	if err := s.blobs.Delete(ctx, key); err != nil {
		metrics.RecordStorageError("delete")
		return fmt.Errorf("%w: delete %s: %w", ErrPersist, key, err)
	}
	return nil
}

// commit writes next and swaps it in. Callers hold s.mu.
func (s *CandidateStore) commit(ctx context.Context, next []model.Candidate) error {
	if err := s.writeCandidates(ctx, next); err != nil {
		return err
	}
	s.candidates = next
	s.publishGauges()
	return nil
}

func (s *CandidateStore) writeCandidates(ctx context.Context, cs []model.Candidate) error {
	if cs == nil {
		cs = []model.Candidate{}
	}
	raw, err := json.Marshal(cs)
	if err != nil {
		return fmt.Errorf("%w: encode candidates: %w", ErrPersist, err)
	}
	return s.put(ctx, KeyCandidates, raw)
}

func (s *CandidateStore) put(ctx context.Context, key string, value []byte) error {
	if err := s.blobs.Put(ctx, key, value); err != nil {
		metrics.RecordStorageError("put")
		s.logger.Error(ctx, "blob write failed", logger.String("key", key), logger.Error(err))
		return fmt.Errorf("%w: write %s: %w", ErrPersist, key, err)
	}
	return nil
}

func (s *CandidateStore) indexOf(id string) int {
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CandidateStore) publishGauges() {
	metrics.UpdateRosterSize(len(s.candidates))
	metrics.UpdateTotalVotes(tally.TotalVotes(s.candidates))
}

// Close releases the underlying blob storage.
func (s *CandidateStore) Close() error {
	return s.blobs.Close()
}

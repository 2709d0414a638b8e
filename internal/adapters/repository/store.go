// Package repository owns the candidate roster, its vote counters and the
// "already voted" marker, and persists them as keyed blobs.
package repository

import (
	"context"

	"github.com/okian/ballot/internal/domain/model"
)

// Blob keys. The names match the keys the original browser client used so
// exported state stays recognisable.
const (
	KeyCandidates = "voter_candidates"
	KeyVoted      = "has_voted"
)

// Store provides read/write access to election state. Every mutation is
// written through to persistent storage before it becomes visible.
type Store interface {
	// List returns a copy of the roster in roster order.
	List(ctx context.Context) []model.Candidate
	// Get returns one candidate or ErrNotFound.
	Get(ctx context.Context, id string) (model.Candidate, error)
	// Count returns the roster size.
	Count(ctx context.Context) int
	// Voted reports whether a ballot has been confirmed on this store.
	Voted(ctx context.Context) bool

	// RecordBallot tallies sel and marks the store as voted, as one unit.
	RecordBallot(ctx context.Context, sel model.Selections) ([]model.Candidate, error)
	// Append adds a candidate at the end of the roster.
	Append(ctx context.Context, c model.Candidate) error
	// Rename replaces a candidate's display name.
	Rename(ctx context.Context, id, name string) (model.Candidate, error)
	// Remove deletes a candidate together with its votes.
	Remove(ctx context.Context, id string) (model.Candidate, error)
	// AddVote increments one candidate's counter outside of a ballot.
	AddVote(ctx context.Context, id string) error
	// Reset restores the seed roster and clears the voted marker.
	Reset(ctx context.Context) error
}

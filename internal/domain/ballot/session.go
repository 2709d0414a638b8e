// Package ballot tracks one voter's in-progress selections and drives the
// Editing -> PendingConfirmation -> Submitted state machine.
//
// PendingConfirmation -> Editing is the only backward edge. Submitted is
// terminal until Reset.
package ballot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/ballot/internal/domain/model"
)

// State is the session's position in the submission flow.
type State string

const (
	Editing             State = "editing"
	PendingConfirmation State = "pending_confirmation"
	Submitted           State = "submitted"
)

// Tallier is the store side of a session: it validates choices and applies a
// confirmed ballot.
type Tallier interface {
	Get(ctx context.Context, id string) (model.Candidate, error)
	RecordBallot(ctx context.Context, sel model.Selections) ([]model.Candidate, error)
}

// Session holds the selection map for a single voter.
type Session struct {
	mu         sync.Mutex
	tallier    Tallier
	state      State
	selections model.Selections
}

// NewSession starts a session. If submitted is true (the store says this
// voter has already voted) the session starts locked.
func NewSession(t Tallier, submitted bool) *Session {
	s := &Session{tallier: t, state: Editing, selections: model.Selections{}}
	if submitted {
		s.state = Submitted
	}
	return s
}

// Select records choice for office, replacing any earlier entry. choice is a
// candidate id belonging to office or model.Abstain.
func (s *Session) Select(ctx context.Context, office model.Office, choice string) error {
	if !office.Valid() {
		return model.ErrUnknownOffice
	}
	choice = strings.TrimSpace(choice)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if choice != model.Abstain {
		c, err := s.tallier.Get(ctx, choice)
		if err != nil || c.Office != office {
			return fmt.Errorf("%w: %q for %s", ErrInvalidChoice, choice, office)
		}
	}
	s.selections[office] = choice
	return nil
}

// ClearSelections empties the selection map while editing.
func (s *Session) ClearSelections() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.selections = model.Selections{}
	return nil
}

// CanSubmit reports whether every office has an entry.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selections.Complete()
}

// RequestSubmit moves a complete ballot to PendingConfirmation. The store is
// not touched.
func (s *Session) RequestSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Submitted:
		return ErrLocked
	case PendingConfirmation:
		return nil
	}
	if !s.selections.Complete() {
		return ErrIncompleteBallot
	}
	s.state = PendingConfirmation
	return nil
}

// CancelConfirm returns from PendingConfirmation to Editing.
func (s *Session) CancelConfirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != PendingConfirmation {
		return ErrNotPending
	}
	s.state = Editing
	return nil
}

// Receipt describes a confirmed ballot without identifying the voter.
type Receipt struct {
	Votes       map[model.Office]string `json:"votes"`
	Abstentions []model.Office          `json:"abstentions"`
	Candidates  []model.Candidate       `json:"-"`
}

// ConfirmSubmit applies the pending ballot. Tally, voted marker and the
// cleared selection map happen together; if the store fails the session
// stays pending and nothing is cleared.
func (s *Session) ConfirmSubmit(ctx context.Context) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Submitted:
		return Receipt{}, ErrLocked
	case Editing:
		return Receipt{}, ErrNotPending
	}

	sel := s.selections.Clone()
	updated, err := s.tallier.RecordBallot(ctx, sel)
	if err != nil {
		return Receipt{}, err
	}

	r := Receipt{Votes: make(map[model.Office]string), Abstentions: []model.Office{}, Candidates: updated}
	for _, o := range model.Offices() {
		if sel[o] == model.Abstain {
			r.Abstentions = append(r.Abstentions, o)
		} else {
			r.Votes[o] = sel[o]
		}
	}

	s.selections = model.Selections{}
	s.state = Submitted
	return r, nil
}

// Reset unlocks the session and clears its selections.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Editing
	s.selections = model.Selections{}
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	State      State                   `json:"state"`
	Selections map[model.Office]string `json:"selections"`
	Selected   int                     `json:"selected"`
	Offices    int                     `json:"offices"`
	CanSubmit  bool                    `json:"can_submit"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:      s.state,
		Selections: s.selections.Clone(),
		Selected:   s.selections.Filled(),
		Offices:    model.OfficeCount(),
		CanSubmit:  s.state == Editing && s.selections.Complete(),
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) editable() error {
	switch s.state {
	case Submitted:
		return ErrLocked
	case PendingConfirmation:
		return ErrAwaitingConfirmation
	}
	return nil
}

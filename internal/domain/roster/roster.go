// Package roster implements the administrator operations on the candidate
// list: add, rename and remove.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/ballot/internal/domain/model"
)

// Store is the subset of the candidate store the roster needs.
type Store interface {
	List(ctx context.Context) []model.Candidate
	Append(ctx context.Context, c model.Candidate) error
	Rename(ctx context.Context, id, name string) (model.Candidate, error)
	Remove(ctx context.Context, id string) (model.Candidate, error)
}

// NewCandidate is the input to Add.
type NewCandidate struct {
	Name     string       `json:"name"`
	Office   model.Office `json:"office"`
	Bio      string       `json:"bio"`
	ImageURL string       `json:"image_url"`
}

// Admin edits the roster held by a Store.
type Admin struct {
	store Store
	newID func() string
}

// Option configures an Admin.
type Option func(*Admin)

// WithIDGenerator overrides the uuid generator, mainly for tests.
func WithIDGenerator(f func() string) Option {
	return func(a *Admin) {
		if f != nil {
			a.newID = f
		}
	}
}

// NewAdmin returns an Admin over s.
func NewAdmin(s Store, opts ...Option) *Admin {
	a := &Admin{store: s, newID: func() string { return uuid.NewString() }}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add validates nc and appends it with a fresh id and zero votes.
func (a *Admin) Add(ctx context.Context, nc NewCandidate) (model.Candidate, error) {
	name := strings.TrimSpace(nc.Name)
	image := strings.TrimSpace(nc.ImageURL)
	if name == "" {
		return model.Candidate{}, fmt.Errorf("%w: name", ErrMissingField)
	}
	if image == "" {
		return model.Candidate{}, fmt.Errorf("%w: image_url", ErrMissingField)
	}
	office, err := model.ParseOffice(string(nc.Office))
	if err != nil {
		return model.Candidate{}, err
	}
	bio := strings.TrimSpace(nc.Bio)
	if bio == "" {
		bio = model.DefaultBio
	}

	c := model.Candidate{
		ID:       a.newID(),
		Name:     name,
		Office:   office,
		Bio:      bio,
		ImageURL: image,
	}
	if err := a.store.Append(ctx, c); err != nil {
		return model.Candidate{}, err
	}
	return c, nil
}

// Rename stores the trimmed name. Votes and office are left alone.
func (a *Admin) Rename(ctx context.Context, id, name string) (model.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Candidate{}, ErrEmptyName
	}
	return a.store.Rename(ctx, id, name)
}

// Remove deletes a candidate and its votes. There is no undo.
func (a *Admin) Remove(ctx context.Context, id string) (model.Candidate, error) {
	return a.store.Remove(ctx, id)
}

// List returns the roster, restricted to office when it is non-empty.
func (a *Admin) List(ctx context.Context, office model.Office) []model.Candidate {
	all := a.store.List(ctx)
	if office == "" {
		return all
	}
	out := make([]model.Candidate, 0, len(all))
	for _, c := range all {
		if c.Office == office {
			out = append(out, c)
		}
	}
	return out
}

package repository

import (
	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/pkg/logger"
)

// Option applies a configuration option to the CandidateStore.
type Option func(*CandidateStore)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *CandidateStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed replaces the roster used when nothing is persisted and on reset.
func WithSeed(seed func() []model.Candidate) Option {
	return func(s *CandidateStore) {
		if seed != nil {
			s.seed = seed
		}
	}
}

// Package storage provides keyed blob persistence for election state.
//
// The application keeps exactly two blobs (the candidate list and the
// "already voted" marker), so every backend is a flat key/value store with
// no listing, TTLs or transactions.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Supported driver names.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Blobs reads and writes opaque values by key.
type Blobs interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver        string
	Path          string // file: directory holding one file per key
	Prefix        string // redis: key prefix
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLiteDSN     string
}

// Open constructs the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Blobs, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(cfg.Path)
	case DriverRedis:
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Prefix)
	case DriverSQLite:
		return NewSQLite(ctx, cfg.SQLiteDSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

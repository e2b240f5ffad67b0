// Package kv provides the string-keyed store that holds every persisted
// collection as a JSON blob. Backends are interchangeable; callers are
// responsible for encoding and decoding values.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoshaThankachan/EcoWaste/config"
)

// ErrKeyNotFound is returned by Get when no value exists for a key.
var ErrKeyNotFound = errors.New("key not found")

// Store defines the key-value operations used by the record
// repositories. There is no transactionality or atomicity across keys.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the value stored under key. Deleting an absent
	// key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Open constructs the Store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.KVConfig) (Store, error) {
	switch cfg.Backend {
	case config.KVBackendBadger, "":
		return OpenBadger(BadgerConfig{Path: cfg.BadgerPath})
	case config.KVBackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case config.KVBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown kv backend %q", cfg.Backend)
	}
}

// Package store keeps population checkpoints per run and generation.
//
// Payloads are opaque bytes; SavePopulation and LoadPopulation encode them
// with the ea checkpoint codec.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotInitialized is returned by stores used before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// Record describes one saved checkpoint.
type Record struct {
	ID         string // Random UUID, new on every save.
	Run        string
	Generation int
	Size       int64 // Payload size in bytes.
	CreatedAt  time.Time
}

// Store defines persistence operations for population checkpoints.
// Saving a (run, generation) pair that already exists replaces it.
type Store interface {
	Init(ctx context.Context) error
	SaveCheckpoint(ctx context.Context, run string, generation int, payload []byte) (Record, error)
	LoadCheckpoint(ctx context.Context, run string, generation int) ([]byte, bool, error)
	LatestCheckpoint(ctx context.Context, run string) (Record, []byte, bool, error)
	// ListCheckpoints returns the run's records ordered by generation.
	ListCheckpoints(ctx context.Context, run string) ([]Record, error)
}

func validateKey(run string, generation int) error {
	if run == "" {
		return errors.New("run is required")
	}
	if generation < 0 {
		return fmt.Errorf("generation cannot be negative: %d", generation)
	}
	return nil
}

// Package store persists round records behind an optimistic transaction boundary
//
// Every write is a read-compute-write cycle guarded by the record version. When a concurrent
// writer commits first, the whole cycle is run again on the fresh record.
package store

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"siglo-server/pkg/round"
)

// DefaultMaxRetries is used when a store is created with a non-positive retry budget
const DefaultMaxRetries = 10

// ErrNotFound is returned when no record exists for the room code
var ErrNotFound = errors.New("record not found")

// ErrExists is returned when creating a record for a room code that is taken
var ErrExists = errors.New("record already exists")

// ErrConflict is returned when the retry budget is exhausted by concurrent writers
var ErrConflict = errors.New("too many concurrent writers")

// TransactFunc computes the next record from the current one
// It must not modify cur and may be called more than once. Returning cur itself commits nothing.
type TransactFunc func(cur *round.Record) (*round.Record, error)

// Store is the persistence contract for round records
type Store interface {
	// Get returns the current record
	Get(ctx context.Context, roomCode string) (*round.Record, error)
	// Create stores a new record at version 1
	Create(ctx context.Context, r *round.Record) (*round.Record, error)
	// Transact atomically replaces the record with the result of fn
	Transact(ctx context.Context, roomCode string, fn TransactFunc) (*round.Record, error)
	// Delete removes the record
	Delete(ctx context.Context, roomCode string) error
}

// commitFunc writes next if the stored version still matches cur
// It returns false when another writer got there first.
type commitFunc func(ctx context.Context, cur, next *round.Record) (bool, error)

type readFunc func(ctx context.Context, roomCode string) (*round.Record, error)

// transact is the retry loop shared by the store implementations
func transact(ctx context.Context, roomCode string, maxRetries int, read readFunc, commit commitFunc, fn TransactFunc) (*round.Record, error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cur, err := read(ctx, roomCode)
		if err != nil {
			return nil, err
		}

		next, err := fn(cur)
		if err != nil {
			return nil, err
		}

		if next == cur {
			return cur, nil
		}

		ok, err := commit(ctx, cur, next)
		if err != nil {
			return nil, err
		}

		if ok {
			return next, nil
		}

		logrus.WithFields(logrus.Fields{
			"roomCode": roomCode,
			"version":  cur.Version,
			"attempt":  attempt,
		}).Debug("write conflict, retrying")
	}

	return nil, ErrConflict
}

func retries(maxRetries int) int {
	if maxRetries <= 0 {
		return DefaultMaxRetries
	}

	return maxRetries
}

package store

import (
	"context"
	"sync"

	"github.com/coder/quartz"
	"siglo-server/pkg/round"
)

// Memory is an in-process Store
// Records are copied on the way in and out, so callers never share state with the store.
type Memory struct {
	maxRetries int
	clock      quartz.Clock

	mu     sync.Mutex
	rounds map[string]*round.Record
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store
func NewMemory(maxRetries int) *Memory {
	return &Memory{
		maxRetries: retries(maxRetries),
		clock:      quartz.NewReal(),
		rounds:     make(map[string]*round.Record),
	}
}

// WithClock sets the clock used for timestamps
func (m *Memory) WithClock(clock quartz.Clock) *Memory {
	m.clock = clock
	return m
}

// Get returns the current record
func (m *Memory) Get(_ context.Context, roomCode string) (*round.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rounds[roomCode]
	if !ok {
		return nil, ErrNotFound
	}

	return r.Clone(), nil
}

// Create stores a new record at version 1
func (m *Memory) Create(_ context.Context, r *round.Record) (*round.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rounds[r.RoomCode]; ok {
		return nil, ErrExists
	}

	created := r.Clone()
	created.Version = 1
	created.CreatedAt = m.clock.Now()
	created.UpdatedAt = created.CreatedAt
	m.rounds[r.RoomCode] = created

	return created.Clone(), nil
}

// Transact atomically replaces the record with the result of fn
// The lock is not held while fn runs.
func (m *Memory) Transact(ctx context.Context, roomCode string, fn TransactFunc) (*round.Record, error) {
	return transact(ctx, roomCode, m.maxRetries, m.Get, m.commit, fn)
}

func (m *Memory) commit(_ context.Context, cur, next *round.Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.rounds[cur.RoomCode]
	if !ok {
		return false, ErrNotFound
	}

	if stored.Version != cur.Version {
		return false, nil
	}

	next.RoomCode = cur.RoomCode
	next.Version = cur.Version + 1
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = m.clock.Now()
	m.rounds[cur.RoomCode] = next.Clone()

	return true, nil
}

// Delete removes the record
func (m *Memory) Delete(_ context.Context, roomCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rounds[roomCode]; !ok {
		return ErrNotFound
	}

	delete(m.rounds, roomCode)
	return nil
}

// RoomCodes returns the codes of every stored record
func (m *Memory) RoomCodes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	codes := make([]string, 0, len(m.rounds))
	for code := range m.rounds {
		codes = append(codes, code)
	}

	return codes
}

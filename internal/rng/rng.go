package rng

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"
)

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Crypto wraps the crypto/rand library
type Crypto struct{}

// Intn returns a random number from 0 <= x < n
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}

// Seeded is a deterministic generator
// This should only be used by tests and replays
type Seeded struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeeded returns a deterministic generator for the seed
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

// Intn returns a random number from 0 <= x < n
func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Intn(n)
}

// Fixed replays the given values in order, wrapping each one into range
// Useful for forcing specific draws in tests
type Fixed struct {
	Values []int

	mu   sync.Mutex
	next int
}

// Intn returns the next fixed value modulo n
func (f *Fixed) Intn(n int) int {
	if len(f.Values) == 0 {
		return 0
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v % n
}

// Package tiles provides the tile pool and scoring primitives for Siglo
package tiles

import (
	"errors"

	"siglo-server/internal/rng"
)

// ErrEmptyPool is returned when a draw is attempted on an empty pool
var ErrEmptyPool = errors.New("tile pool is empty")

// ErrNoWildcardTile is returned when the pool holds no tile eligible to be the wildcard
var ErrNoWildcardTile = errors.New("no wildcard tile left in pool")

const (
	// MinTile is the lowest tile value
	MinTile = 1
	// MaxTile is the highest tile value
	MaxTile = 90
	// MaxWildcard is the highest value the wildcard can take
	MaxWildcard = 30
)

// Scoring thresholds
const (
	SigloLow  = 99
	SigloHigh = 100
)

// Outcome is the classification of a hand total
type Outcome int

// Outcome constants
const (
	// Live means the hand can keep drawing
	Live Outcome = iota
	// Siglo means the hand totals exactly 99 or 100
	Siglo
	// Bust means the hand total is over 100
	Bust
)

func (o Outcome) String() string {
	switch o {
	case Siglo:
		return "siglo"
	case Bust:
		return "bust"
	default:
		return "live"
	}
}

// NewPool returns the 90 tiles in order
// Important! the pool is unshuffled
func NewPool() []int {
	pool := make([]int, 0, MaxTile)
	for v := MinTile; v <= MaxTile; v++ {
		pool = append(pool, v)
	}

	return pool
}

// Shuffle returns a uniformly shuffled copy of tiles (Fisher-Yates)
func Shuffle(gen rng.Generator, tiles []int) []int {
	shuffled := make([]int, len(tiles))
	copy(shuffled, tiles)

	for j := len(shuffled) - 1; j > 0; j-- {
		i := gen.Intn(j + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// DrawRandom removes a uniformly chosen tile from pool
// The input slice is never modified; the remaining tiles are returned in their original order.
func DrawRandom(gen rng.Generator, pool []int) (tile int, rest []int, err error) {
	if len(pool) == 0 {
		return 0, pool, ErrEmptyPool
	}

	idx := gen.Intn(len(pool))
	return pool[idx], without(pool, idx), nil
}

// DrawWildcard removes a random tile with a value of MaxWildcard or less from pool
func DrawWildcard(gen rng.Generator, pool []int) (tile int, rest []int, err error) {
	eligible := make([]int, 0, MaxWildcard)
	for i, v := range pool {
		if v <= MaxWildcard {
			eligible = append(eligible, i)
		}
	}

	if len(eligible) == 0 {
		return 0, pool, ErrNoWildcardTile
	}

	idx := eligible[gen.Intn(len(eligible))]
	return pool[idx], without(pool, idx), nil
}

// HandTotal returns the sum of the hand plus the wildcard if active
func HandTotal(hand []int, wildcardActive bool, wildcardValue int) int {
	total := 0
	for _, t := range hand {
		total += t
	}

	if wildcardActive {
		total += wildcardValue
	}

	return total
}

// Classify classifies a hand total
func Classify(total int) Outcome {
	switch {
	case total > SigloHigh:
		return Bust
	case total == SigloLow || total == SigloHigh:
		return Siglo
	default:
		return Live
	}
}

func without(pool []int, idx int) []int {
	rest := make([]int, 0, len(pool)-1)
	rest = append(rest, pool[:idx]...)
	return append(rest, pool[idx+1:]...)
}

package tiles

import (
	"sort"
	"testing"

	"siglo-server/internal/rng"

	"github.com/stretchr/testify/assert"
)

func TestNewPool(t *testing.T) {
	a := assert.New(t)
	pool := NewPool()
	a.Len(pool, 90)
	a.Equal(1, pool[0])
	a.Equal(90, pool[89])
}

func TestShuffle(t *testing.T) {
	a := assert.New(t)

	pool := NewPool()
	shuffled := Shuffle(rng.NewSeeded(1), pool)

	// input is untouched
	a.Equal(NewPool(), pool)
	a.NotEqual(pool, shuffled)

	sorted := append([]int{}, shuffled...)
	sort.Ints(sorted)
	a.Equal(pool, sorted)
}

func TestShuffle_Uniformity(t *testing.T) {
	gen := rng.NewSeeded(7)
	firsts := make(map[int]int)
	for i := 0; i < 6000; i++ {
		firsts[Shuffle(gen, []int{1, 2, 3})[0]]++
	}

	for _, v := range []int{1, 2, 3} {
		assert.InDelta(t, 2000, firsts[v], 200, "tile %d", v)
	}
}

func TestDrawRandom(t *testing.T) {
	a := assert.New(t)

	pool := []int{5, 95}
	tile, rest, err := DrawRandom(&rng.Fixed{Values: []int{0}}, pool)
	a.NoError(err)
	a.Equal(5, tile)
	a.Equal([]int{95}, rest)
	a.Equal([]int{5, 95}, pool)

	tile, rest, err = DrawRandom(&rng.Fixed{Values: []int{0}}, rest)
	a.NoError(err)
	a.Equal(95, tile)
	a.Empty(rest)

	_, _, err = DrawRandom(rng.Crypto{}, rest)
	a.Equal(ErrEmptyPool, err)
}

func TestDrawWildcard(t *testing.T) {
	a := assert.New(t)

	gen := rng.NewSeeded(3)
	for i := 0; i < 100; i++ {
		tile, rest, err := DrawWildcard(gen, NewPool())
		a.NoError(err)
		a.True(tile >= 1 && tile <= MaxWildcard)
		a.Len(rest, 89)
		a.NotContains(rest, tile)
	}

	_, _, err := DrawWildcard(gen, []int{31, 45, 90})
	a.Equal(ErrNoWildcardTile, err)
}

func TestHandTotal(t *testing.T) {
	a := assert.New(t)
	a.Equal(95, HandTotal([]int{90, 5}, false, 10))
	a.Equal(105, HandTotal([]int{90, 5}, true, 10))
	a.Equal(0, HandTotal(nil, false, 30))
	a.Equal(30, HandTotal(nil, true, 30))
}

func TestClassify(t *testing.T) {
	a := assert.New(t)
	a.Equal(Live, Classify(0))
	a.Equal(Live, Classify(98))
	a.Equal(Siglo, Classify(99))
	a.Equal(Siglo, Classify(100))
	a.Equal(Bust, Classify(101))
	a.Equal("bust", Bust.String())
	a.Equal("siglo", Siglo.String())
	a.Equal("live", Live.String())
}

package round

import (
	"testing"

	"siglo-server/internal/rng"

	"github.com/stretchr/testify/require"
)

// newTestRecord returns a lobby record with the given players seated, the first one hosting
func newTestRecord(t *testing.T, seed int64, playerIDs ...string) *Record {
	t.Helper()

	r, err := New(rng.NewSeeded(seed), "ROOM1", playerIDs[0], 100)
	require.NoError(t, err)

	for _, id := range playerIDs {
		r, err = Join(r, id, "Player "+id, 1000)
		require.NoError(t, err)
	}

	return r
}

// startedRecord returns a started round with a fixed wildcard and the given hands
func startedRecord(t *testing.T, wildcard int, hands map[string][]int, order ...string) *Record {
	t.Helper()

	r := newTestRecord(t, 1, order...)
	r, err := Start(r, rng.NewSeeded(2))
	require.NoError(t, err)

	for _, p := range r.Players {
		r.Deck = append(r.Deck, p.Hand...)
		p.Hand = []int{}
	}

	setWildcard(t, r, wildcard)
	for id, hand := range hands {
		give(t, r, id, hand...)
	}

	require.NoError(t, r.Validate())
	return r
}

// give replaces the player's hand with the given tiles, moving tiles between deck and hand
func give(t *testing.T, r *Record, playerID string, hand ...int) {
	t.Helper()

	p, _ := r.Player(playerID)
	require.NotNil(t, p)

	r.Deck = append(r.Deck, p.Hand...)
	p.Hand = []int{}
	for _, tile := range hand {
		r.Deck = takeTile(t, r.Deck, tile)
		p.Hand = append(p.Hand, tile)
	}
}

// setWildcard swaps the wildcard tile with one from the deck
func setWildcard(t *testing.T, r *Record, value int) {
	t.Helper()

	if r.Wildcard.Value == value {
		return
	}

	r.Deck = takeTile(t, r.Deck, value)
	r.Deck = append(r.Deck, r.Wildcard.Value)
	r.Wildcard.Value = value
}

func takeTile(t *testing.T, deck []int, tile int) []int {
	t.Helper()

	for i, v := range deck {
		if v == tile {
			return append(deck[:i:i], deck[i+1:]...)
		}
	}

	require.FailNow(t, "tile not in deck", "tile %d", tile)
	return nil
}

// drawSpecific draws the given tile for the player
func drawSpecific(t *testing.T, r *Record, playerID string, tile int) *Record {
	t.Helper()

	for i, v := range r.Deck {
		if v == tile {
			next, drawn, err := DrawTile(r, &rng.Fixed{Values: []int{i}}, playerID)
			require.NoError(t, err)
			require.Equal(t, tile, drawn)
			return next
		}
	}

	require.FailNow(t, "tile not in deck", "tile %d", tile)
	return nil
}

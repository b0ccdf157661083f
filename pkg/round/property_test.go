package round

import (
	"fmt"
	"math/rand"
	"testing"

	"siglo-server/internal/rng"
	"siglo-server/pkg/tiles"

	"github.com/stretchr/testify/require"
)

// TestRandomPlay drives rounds with random actions and checks every resulting record
func TestRandomPlay(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			playRandom(t, seed)
		})
	}
}

func playRandom(t *testing.T, seed int64) {
	gen := rng.NewSeeded(seed)
	chooser := rand.New(rand.NewSource(seed))

	ids := make([]string, 1+chooser.Intn(MaxPlayers))
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i)
	}

	r := newTestRecord(t, seed, ids...)
	r, err := Start(r, gen)
	require.NoError(t, err)
	require.NoError(t, r.Validate())

	for step := 0; step < 300; step++ {
		prev := r
		var next *Record

		if r.RoundState == StateFinished {
			next, err = Start(r, gen)
			require.NoError(t, err)
		} else if r.AllBusted() {
			id := r.PendingBets()[0]
			p, _ := r.Player(id)
			next, err = PlaceBet(r, gen, id, MinBet+chooser.Intn(p.Coins-MinBet+1))
			require.NoError(t, err)
		} else {
			id := ids[chooser.Intn(len(ids))]
			switch chooser.Intn(4) {
			case 0, 1:
				next, _, err = DrawTile(r, gen, id)
			case 2:
				next, err = ToggleWildcard(r, id)
			default:
				next, err = Stand(r, id)
			}

			if err != nil {
				require.NotEqual(t, KindUnknown, KindOf(err), "step %d", step)
				next = r
			}

			next = AdvanceTurn(next)
		}

		require.NoError(t, next.Validate(), "step %d", step)
		checkTransition(t, prev, next)
		r = next
	}
}

// checkTransition asserts the properties that hold between any two consecutive records
func checkTransition(t *testing.T, prev, next *Record) {
	t.Helper()

	coins := func(r *Record) int {
		total := 0
		for _, p := range r.Players {
			total += p.Coins
		}
		return total
	}

	if prev.RoundState == StateInRound && next.RoundState == StateFinished {
		require.Equal(t, coins(prev)+prev.Pot, coins(next), "pot must be paid out exactly once")
		require.NotNil(t, next.Winner())
	} else {
		require.Equal(t, coins(prev), coins(next))
	}

	if next.RoundState == StateInRound && prev.RoundState != StateInRound {
		sum := 0
		for _, p := range next.Players {
			sum += p.Bet
		}
		require.Equal(t, sum, next.Pot)
	}

	for _, p := range next.Players {
		if p.Status == StatusPlaying {
			require.Equal(t, tiles.Live, tiles.Classify(next.Total(p)))
		}
	}
}

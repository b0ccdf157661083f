package round

import (
	"testing"

	"siglo-server/internal/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allBustedRecord(t *testing.T) *Record {
	t.Helper()

	r := startedRecord(t, 10, map[string][]int{"a": {60}, "b": {61}, "c": {62}}, "a", "b", "c")
	r = drawSpecific(t, r, "a", 50)
	r = drawSpecific(t, r, "b", 45)
	require.Equal(t, StateInRound, r.RoundState)
	require.False(t, r.AllBusted())

	r = drawSpecific(t, r, "c", 44)
	require.True(t, r.AllBusted())
	return r
}

func TestPlaceBet_Equalizes(t *testing.T) {
	a := assert.New(t)

	r := allBustedRecord(t)
	a.Equal(StateInRound, r.RoundState, "nobody is paid when everyone busts")
	a.Equal(300, r.Pot)
	a.Equal([]string{"a", "b", "c"}, r.PendingBets())

	r, err := PlaceBet(r, rng.NewSeeded(3), "a", 100)
	require.NoError(t, err)
	a.True(r.Players[0].IsReady)
	a.Equal(100, r.Players[0].Bet)
	a.Equal([]string{"b", "c"}, r.PendingBets())
	a.Equal([]int{60, 50}, r.Players[0].Hand)

	r, err = PlaceBet(r, rng.NewSeeded(3), "b", 150)
	require.NoError(t, err)
	r, err = PlaceBet(r, rng.NewSeeded(3), "c", 120)
	require.NoError(t, err)

	a.Equal(StateInRound, r.RoundState)
	a.Equal(150, r.BaseBet)
	a.Equal(450, r.Pot)
	a.Equal(0, r.CurrentTurnIndex)
	a.Empty(r.DrawnTiles)
	a.Empty(r.Discards)
	a.True(r.Wildcard.Revealed)
	a.Len(r.Deck, 86)
	for _, p := range r.Players {
		a.Equal(150, p.Bet)
		a.Len(p.Hand, 1)
		a.Equal(StatusPlaying, p.Status)
		a.False(p.WildcardActive)
		a.False(p.IsReady)
		a.Equal(1000, p.Coins)
	}
	a.False(r.AllBusted())
	a.NoError(r.Validate())
}

func TestPlaceBet_Errors(t *testing.T) {
	a := assert.New(t)

	_, err := PlaceBet(newTestRecord(t, 1, "a"), rng.NewSeeded(1), "a", 100)
	a.Equal(ErrRoundNotActive, err)

	live := startedRecord(t, 10, map[string][]int{"a": {60}, "b": {61}}, "a", "b")
	_, err = PlaceBet(live, rng.NewSeeded(1), "a", 100)
	a.Equal(ErrNotRebetting, err)

	r := allBustedRecord(t)
	_, err = PlaceBet(r, rng.NewSeeded(1), "zz", 100)
	a.Equal(ErrPlayerNotFound, err)

	_, err = PlaceBet(r, rng.NewSeeded(1), "a", 99)
	a.Equal(KindInvalidAmount, KindOf(err))
	a.EqualError(err, "bet must be between 100 and 1000")

	_, err = PlaceBet(r, rng.NewSeeded(1), "a", 1001)
	a.Equal(KindInvalidAmount, KindOf(err))

	r.Players[1].Coins = 50
	_, err = PlaceBet(r, rng.NewSeeded(1), "b", 100)
	a.EqualError(err, "bet must be at least 100, not enough coins")
}

func TestPlaceBet_RebetReplacesBet(t *testing.T) {
	r := allBustedRecord(t)
	r, _ = PlaceBet(r, rng.NewSeeded(1), "a", 300)
	r, _ = PlaceBet(r, rng.NewSeeded(1), "a", 200)

	assert.Equal(t, 200, r.Players[0].Bet)
	assert.Equal(t, []string{"b", "c"}, r.PendingBets())
}

func TestPlaceBet_WaitingPlayerIsDealtIn(t *testing.T) {
	a := assert.New(t)

	r := allBustedRecord(t)
	r, err := Join(r, "d", "Dee", 500)
	require.NoError(t, err)
	a.True(r.AllBusted(), "a waiting player does not block re-betting")

	for _, id := range []string{"a", "b", "c"} {
		r, err = PlaceBet(r, rng.NewSeeded(1), id, 100)
		require.NoError(t, err)
	}
	a.Equal([]string{"d"}, r.PendingBets())

	r, err = PlaceBet(r, rng.NewSeeded(1), "d", 400)
	require.NoError(t, err)
	a.Equal(StatusPlaying, r.Players[3].Status)
	a.Equal(1600, r.Pot)
	a.NoError(r.Validate())
}

func TestLeave_LastPendingBettorRedeals(t *testing.T) {
	a := assert.New(t)
	gen := rng.NewSeeded(4)

	r := allBustedRecord(t)
	r, err := PlaceBet(r, gen, "a", 100)
	require.NoError(t, err)

	r, err = Leave(r, gen, "c")
	require.NoError(t, err)
	a.True(r.AllBusted(), "b has not bet yet")
	a.Equal([]string{"b"}, r.PendingBets())
	a.Equal(300, r.Pot)
	a.NoError(r.Validate())

	r, err = PlaceBet(r, gen, "b", 150)
	require.NoError(t, err)
	a.False(r.AllBusted())
	a.Equal(300, r.Pot)
	a.NoError(r.Validate())

	r = allBustedRecord(t)
	r, err = Join(r, "d", "Dee", 500)
	require.NoError(t, err)
	for id, bet := range map[string]int{"a": 110, "b": 130, "c": 120} {
		r, err = PlaceBet(r, gen, id, bet)
		require.NoError(t, err)
	}
	a.Equal([]string{"d"}, r.PendingBets())

	r, err = Leave(r, gen, "d")
	require.NoError(t, err)
	a.Equal(StateInRound, r.RoundState)
	a.Empty(r.PendingBets())
	a.False(r.AllBusted())
	a.Equal(130, r.BaseBet)
	a.Equal(390, r.Pot)
	a.Empty(r.Discards)
	for _, p := range r.Players {
		a.Equal(StatusPlaying, p.Status)
		a.Equal(130, p.Bet)
		a.Len(p.Hand, 1)
	}
	a.NoError(r.Validate())
}

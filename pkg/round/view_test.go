package round

import (
	"testing"

	"siglo-server/pkg/snapshot"

	"github.com/stretchr/testify/assert"
)

func TestRecord_View(t *testing.T) {
	r := &Record{
		RoomCode:         "ROOM1",
		HostID:           "a",
		BaseBet:          100,
		Pot:              200,
		Deck:             []int{1, 2, 3},
		DrawnTiles:       []int{20},
		Discards:         []int{},
		Wildcard:         Wildcard{Value: 10, Revealed: true},
		CurrentTurnIndex: 1,
		RoundState:       StateInRound,
		Players: []*Player{
			{ID: "a", Name: "Ana", Coins: 900, Hand: []int{40, 20}, Status: StatusPlaying, Bet: 100, WildcardActive: true},
			{ID: "b", Name: "Bo", Coins: 1000, Hand: []int{60}, Status: StatusStood, Bet: 100},
		},
		Version: 7,
	}

	snapshot.ValidateSnapshot(t, r.View(), 0)
}

func TestRecord_ViewHidesWildcard(t *testing.T) {
	a := assert.New(t)

	r := newTestRecord(t, 1, "a", "b")
	v := r.View()
	a.Equal(0, v.Wildcard.Value)
	a.False(v.Wildcard.Revealed)
	a.Equal(89, v.TilesLeft)
	a.Empty(v.CurrentPlayerID)
	a.False(v.AllBusted)

	r = allBustedRecord(t)
	v = r.View()
	a.Equal(10, v.Wildcard.Value)
	a.True(v.AllBusted)
	a.Equal([]string{"a", "b", "c"}, v.PendingBets)
	a.Equal(110, v.Players[0].Total)

	// the view does not alias the record
	v.Players[0].Hand[0] = 1
	a.Equal(60, r.Players[0].Hand[0])
}

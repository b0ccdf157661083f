// Package round implements the Siglo round record and its state machine
//
// Every operation in this package is a pure transition: it takes the current record and returns
// a new record, leaving its input untouched. The transaction boundary lives in pkg/store; these
// functions may be evaluated more than once when a concurrent writer wins a conflict.
package round

import (
	"time"

	"siglo-server/pkg/tiles"
)

// MaxPlayers is the maximum number of players in a room
const MaxPlayers = 6

// MinBet is the minimum wager
const MinBet = 100

// State is the lifecycle state of a round
type State string

// State constants
const (
	StateLobby   State = "lobby"
	StateInRound State = "in_round"
	// StateResolving is reserved for a transient settlement step.
	// Settlement currently happens inside the transaction that detects the end of the round.
	StateResolving State = "resolving"
	StateFinished  State = "finished"
)

// PlayerStatus is the status of a player within the current round
type PlayerStatus string

// PlayerStatus constants
const (
	StatusWaiting PlayerStatus = "waiting"
	StatusPlaying PlayerStatus = "playing"
	StatusStood   PlayerStatus = "stood"
	StatusBusted  PlayerStatus = "busted"
	StatusWinner  PlayerStatus = "winner"
)

// Wildcard is the round-scoped bonus tile
type Wildcard struct {
	Value    int  `json:"value"`
	Revealed bool `json:"revealed"`
}

// BustedHistory is a snapshot of a hand at the moment it busted
type BustedHistory struct {
	Hand           []int `json:"hand"`
	WildcardActive bool  `json:"wildcardActive"`
	WildcardValue  int   `json:"wildcardValue"`
	Total          int   `json:"total"`
}

// Player is a seat in the room
type Player struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Coins          int            `json:"coins"`
	Hand           []int          `json:"hand"`
	Status         PlayerStatus   `json:"status"`
	Bet            int            `json:"bet"`
	WildcardActive bool           `json:"wildcardActive"`
	IsReady        bool           `json:"isReady,omitempty"`
	BustedHistory  *BustedHistory `json:"bustedHistory,omitempty"`
}

// Record is the canonical state of one room
type Record struct {
	RoomCode         string    `json:"roomCode"`
	HostID           string    `json:"hostId"`
	BaseBet          int       `json:"baseBet"`
	Pot              int       `json:"pot"`
	Deck             []int     `json:"deck"`
	DrawnTiles       []int     `json:"drawnTiles"`
	Discards         []int     `json:"discards"`
	Wildcard         Wildcard  `json:"wildcard"`
	CurrentTurnIndex int       `json:"currentTurnIndex"`
	RoundState       State     `json:"roundState"`
	Players          []*Player `json:"players"`

	// Version is maintained by the store and incremented on every commit
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	c := *r
	c.Deck = cloneInts(r.Deck)
	c.DrawnTiles = cloneInts(r.DrawnTiles)
	c.Discards = cloneInts(r.Discards)
	c.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		c.Players[i] = p.clone()
	}

	return &c
}

func (p *Player) clone() *Player {
	c := *p
	c.Hand = cloneInts(p.Hand)
	if p.BustedHistory != nil {
		bh := *p.BustedHistory
		bh.Hand = cloneInts(p.BustedHistory.Hand)
		c.BustedHistory = &bh
	}

	return &c
}

// Player returns the player and their index, or nil and -1 if not seated
func (r *Record) Player(id string) (*Player, int) {
	for i, p := range r.Players {
		if p.ID == id {
			return p, i
		}
	}

	return nil, -1
}

// Total returns the hand total of the player including the wildcard if active
func (r *Record) Total(p *Player) int {
	return tiles.HandTotal(p.Hand, p.WildcardActive, r.Wildcard.Value)
}

// CurrentPlayer returns the player whose turn it is, or nil if the room is empty
func (r *Record) CurrentPlayer() *Player {
	if len(r.Players) == 0 {
		return nil
	}

	return r.Players[r.CurrentTurnIndex%len(r.Players)]
}

// AllBusted returns true if every dealt player has busted
// This is the condition that triggers the re-betting protocol
func (r *Record) AllBusted() bool {
	dealt := 0
	for _, p := range r.Players {
		if p.Status == StatusWaiting {
			continue
		}

		if p.Status != StatusBusted {
			return false
		}

		dealt++
	}

	return dealt > 0
}

// Winner returns the first player with a winner status
func (r *Record) Winner() *Player {
	for _, p := range r.Players {
		if p.Status == StatusWinner {
			return p
		}
	}

	return nil
}

// reclassify recomputes the status of a dealt player from the hand and wildcard flag
// A bust captures the hand into BustedHistory.
func (r *Record) reclassify(p *Player) {
	total := r.Total(p)
	switch tiles.Classify(total) {
	case tiles.Bust:
		p.Status = StatusBusted
		p.BustedHistory = &BustedHistory{
			Hand:           cloneInts(p.Hand),
			WildcardActive: p.WildcardActive,
			WildcardValue:  r.Wildcard.Value,
			Total:          total,
		}
	case tiles.Siglo:
		p.Status = StatusWinner
	default:
		p.Status = StatusPlaying
	}
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}

	out := make([]int, len(in))
	copy(out, in)
	return out
}

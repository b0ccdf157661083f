package round

import (
	"fmt"

	"siglo-server/internal/rng"
	"siglo-server/pkg/tiles"
)

// New returns a fresh record in the lobby
// The deck is shuffled and the wildcard is drawn from the pool, hidden until the round starts.
func New(gen rng.Generator, roomCode, hostID string, baseBet int) (*Record, error) {
	if baseBet < MinBet {
		return nil, &Error{Kind: KindInvalidAmount, Message: fmt.Sprintf("base bet must be at least %d", MinBet)}
	}

	r := &Record{
		RoomCode:   roomCode,
		HostID:     hostID,
		BaseBet:    baseBet,
		RoundState: StateLobby,
		Players:    []*Player{},
	}

	if err := r.freshPool(gen); err != nil {
		return nil, err
	}

	return r, nil
}

// Join seats a new player at the end of the turn order
func Join(cur *Record, playerID, name string, coins int) (*Record, error) {
	if len(cur.Players) >= MaxPlayers {
		return nil, ErrGameFull
	}

	if p, _ := cur.Player(playerID); p != nil {
		return nil, ErrDuplicatePlayer
	}

	if coins < MinBet {
		return nil, &Error{Kind: KindInvalidAmount, Message: fmt.Sprintf("coins must cover the minimum bet of %d", MinBet)}
	}

	next := cur.Clone()
	next.Players = append(next.Players, &Player{
		ID:     playerID,
		Name:   name,
		Coins:  coins,
		Hand:   []int{},
		Status: StatusWaiting,
		Bet:    0,
	})

	return next, nil
}

// SetReady sets the ready flag of a player
// Outside of a round only; during re-betting readiness is set by placing a bet.
func SetReady(cur *Record, playerID string, ready bool) (*Record, error) {
	if cur.RoundState == StateInRound {
		return nil, ErrRoundInProgress
	}

	if p, _ := cur.Player(playerID); p == nil {
		return nil, ErrPlayerNotFound
	}

	next := cur.Clone()
	p, _ := next.Player(playerID)
	p.IsReady = ready
	return next, nil
}

// Start deals a new round
// Whether the caller may start the round (host only) is checked by the caller.
// A finished round is reset in place with a fresh pool and wildcard.
func Start(cur *Record, gen rng.Generator) (*Record, error) {
	switch cur.RoundState {
	case StateLobby, StateFinished:
	default:
		return nil, ErrRoundInProgress
	}

	if len(cur.Players) == 0 {
		return nil, ErrNoPlayers
	}

	next := cur.Clone()
	if cur.RoundState == StateFinished {
		if err := next.freshPool(gen); err != nil {
			return nil, err
		}
	}

	if err := next.dealRound(gen, next.BaseBet); err != nil {
		return nil, err
	}

	return next, nil
}

// RemovePlayer removes a player on behalf of the host
func RemovePlayer(cur *Record, gen rng.Generator, playerID, byHostID string) (*Record, error) {
	if cur.HostID != byHostID {
		return nil, ErrNotHost
	}

	if playerID == cur.HostID {
		return nil, ErrCannotRemoveSelf
	}

	_, idx := cur.Player(playerID)
	if idx < 0 {
		return nil, ErrPlayerNotFound
	}

	next := cur.Clone()
	if err := next.removeAt(gen, idx); err != nil {
		return nil, err
	}

	return next, nil
}

// Leave removes a player at their own request
// Leaving a room you are not in is a no-op and returns cur itself.
// When the host leaves, hosting passes to the next player in turn order.
func Leave(cur *Record, gen rng.Generator, playerID string) (*Record, error) {
	_, idx := cur.Player(playerID)
	if idx < 0 {
		return cur, nil
	}

	next := cur.Clone()
	if err := next.removeAt(gen, idx); err != nil {
		return nil, err
	}

	if next.HostID == playerID && len(next.Players) > 0 {
		next.HostID = next.Players[0].ID
	}

	return next, nil
}

// removeAt drops the player at idx, retiring their tiles to the discards
// The turn index is not renormalized; the modulo on the next advance takes care of it.
//
// A round nobody dealt in is left to play is abandoned: the pot is forfeited and the round
// finishes so it can be started again. During re-betting the redeal happens as soon as the
// last pending bettor is gone.
func (r *Record) removeAt(gen rng.Generator, idx int) error {
	r.Discards = append(r.Discards, r.Players[idx].Hand...)
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if r.RoundState != StateInRound {
		return nil
	}

	if r.dealtCount() == 0 {
		r.abandon()
		return nil
	}

	if r.AllBusted() && r.allReady() {
		return r.redeal(gen)
	}

	return nil
}

// dealtCount returns the number of players dealt into the current round
func (r *Record) dealtCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Status != StatusWaiting {
			n++
		}
	}

	return n
}

// abandon finishes a round that has no dealt players left
func (r *Record) abandon() {
	r.Pot = 0
	r.RoundState = StateFinished
	r.CurrentTurnIndex = 0
	for _, p := range r.Players {
		p.IsReady = false
	}
}

// freshPool rebuilds the deck from all 90 tiles and draws a hidden wildcard from it
func (r *Record) freshPool(gen rng.Generator) error {
	wildcard, deck, err := tiles.DrawWildcard(gen, tiles.Shuffle(gen, tiles.NewPool()))
	if err != nil {
		return err
	}

	r.Deck = deck
	r.Wildcard = Wildcard{Value: wildcard}
	r.DrawnTiles = []int{}
	r.Discards = []int{}
	for _, p := range r.Players {
		p.Hand = []int{}
	}

	return nil
}

// dealRound resets every player for a new round at the given bet and deals one tile each
func (r *Record) dealRound(gen rng.Generator, bet int) error {
	for _, p := range r.Players {
		r.Deck = append(r.Deck, p.Hand...)
		p.Hand = []int{}
		p.Status = StatusPlaying
		p.Bet = bet
		p.WildcardActive = false
		p.IsReady = false
	}

	for _, p := range r.Players {
		tile, rest, err := tiles.DrawRandom(gen, r.Deck)
		if err != nil {
			return ErrDeckEmpty
		}

		r.Deck = rest
		p.Hand = append(p.Hand, tile)
	}

	r.Pot = len(r.Players) * bet
	r.BaseBet = bet
	r.Wildcard.Revealed = true
	r.RoundState = StateInRound
	r.CurrentTurnIndex = 0
	return nil
}

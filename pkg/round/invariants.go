package round

import (
	"fmt"

	"siglo-server/pkg/tiles"
)

// InvariantError is returned by Validate when a record is inconsistent
// It indicates a bug, not a client error.
type InvariantError struct {
	RoomCode string
	Reason   string
}

func (i InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in room %s: %s", i.RoomCode, i.Reason)
}

// Validate checks the record invariants
// Every record must pass before it is committed.
func (r *Record) Validate() error {
	fail := func(format string, a ...interface{}) error {
		return InvariantError{RoomCode: r.RoomCode, Reason: fmt.Sprintf(format, a...)}
	}

	if r.BaseBet < MinBet {
		return fail("base bet %d below minimum", r.BaseBet)
	}

	if r.Pot < 0 {
		return fail("negative pot %d", r.Pot)
	}

	if r.RoundState != StateInRound && r.RoundState != StateResolving && r.Pot != 0 {
		return fail("pot %d outside of a round", r.Pot)
	}

	// departed players leave their stake behind, and bets move freely while re-betting
	if r.RoundState == StateInRound && !r.AllBusted() {
		if bets := r.totalBets(); r.Pot < bets {
			return fail("pot %d below the %d wagered", r.Pot, bets)
		}
	}

	if len(r.Players) > MaxPlayers {
		return fail("%d players exceeds maximum", len(r.Players))
	}

	if r.CurrentTurnIndex < 0 {
		return fail("negative turn index")
	}

	if r.Wildcard.Value < tiles.MinTile || r.Wildcard.Value > tiles.MaxWildcard {
		return fail("wildcard %d out of range", r.Wildcard.Value)
	}

	if err := r.validateConservation(); err != "" {
		return fail("%s", err)
	}

	ids := make(map[string]bool, len(r.Players))
	for _, p := range r.Players {
		if ids[p.ID] {
			return fail("duplicate player %s", p.ID)
		}
		ids[p.ID] = true

		if p.Coins < 0 || p.Bet < 0 {
			return fail("player %s has negative coins or bet", p.ID)
		}

		if reason := r.statusConsistency(p); reason != "" {
			return fail("player %s: %s", p.ID, reason)
		}
	}

	return nil
}

func (r *Record) totalBets() int {
	total := 0
	for _, p := range r.Players {
		total += p.Bet
	}

	return total
}

// validateConservation checks that every tile exists exactly once across the deck, the hands,
// the discards and the wildcard, and that the draw history only names tiles that left the deck
func (r *Record) validateConservation() string {
	seen := make(map[int]int, tiles.MaxTile)
	count := func(values []int) {
		for _, v := range values {
			seen[v]++
		}
	}

	count(r.Deck)
	count(r.Discards)
	for _, p := range r.Players {
		count(p.Hand)
	}
	seen[r.Wildcard.Value]++

	for v := tiles.MinTile; v <= tiles.MaxTile; v++ {
		if seen[v] != 1 {
			return fmt.Sprintf("tile %d seen %d times", v, seen[v])
		}
	}

	if len(seen) != tiles.MaxTile {
		return fmt.Sprintf("%d distinct tiles, expected %d", len(seen), tiles.MaxTile)
	}

	out := make(map[int]bool, tiles.MaxTile)
	for _, v := range r.Discards {
		out[v] = true
	}
	for _, p := range r.Players {
		for _, v := range p.Hand {
			out[v] = true
		}
	}

	drawn := make(map[int]bool, len(r.DrawnTiles))
	for _, v := range r.DrawnTiles {
		if drawn[v] || !out[v] {
			return fmt.Sprintf("drawn tile %d is not held", v)
		}
		drawn[v] = true
	}

	return ""
}

// statusConsistency checks a player's stored status against their hand
func (r *Record) statusConsistency(p *Player) string {
	if p.Status == StatusWaiting {
		return ""
	}

	total := r.Total(p)
	outcome := tiles.Classify(total)
	if (p.Status == StatusBusted) != (outcome == tiles.Bust) {
		return fmt.Sprintf("status %s with total %d", p.Status, total)
	}

	switch p.Status {
	case StatusPlaying:
		if outcome != tiles.Live {
			return fmt.Sprintf("playing with total %d", total)
		}
	case StatusStood, StatusWinner, StatusBusted:
	default:
		return fmt.Sprintf("unknown status %q", p.Status)
	}

	return ""
}

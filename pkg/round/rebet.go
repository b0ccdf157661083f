package round

import (
	"siglo-server/internal/rng"
)

// PlaceBet records a player's wager during re-betting
//
// Bets are only accepted once every player has busted. When the last player commits, every bet is
// raised to the highest one and a fresh round is dealt in the same transition. Coins are not
// debited here; the caller keeps the wallet ledger for wagers.
func PlaceBet(cur *Record, gen rng.Generator, playerID string, amount int) (*Record, error) {
	if cur.RoundState != StateInRound {
		return nil, ErrRoundNotActive
	}

	p, _ := cur.Player(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	if !cur.AllBusted() {
		return nil, ErrNotRebetting
	}

	if amount < MinBet || amount > p.Coins {
		return nil, InvalidAmountError(MinBet, p.Coins)
	}

	next := cur.Clone()
	p, _ = next.Player(playerID)
	p.Bet = amount
	p.IsReady = true

	if !next.allReady() {
		return next, nil
	}

	if err := next.redeal(gen); err != nil {
		return nil, err
	}

	return next, nil
}

// redeal raises every bet to the highest one and deals a fresh round
func (r *Record) redeal(gen rng.Generator) error {
	highestBet := 0
	for _, p := range r.Players {
		if p.Bet > highestBet {
			highestBet = p.Bet
		}
	}

	if err := r.freshPool(gen); err != nil {
		return err
	}

	return r.dealRound(gen, highestBet)
}

// PendingBets returns the ids of players who have not yet placed a bet
func (r *Record) PendingBets() []string {
	pending := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.IsReady {
			pending = append(pending, p.ID)
		}
	}

	return pending
}

func (r *Record) allReady() bool {
	return len(r.PendingBets()) == 0
}

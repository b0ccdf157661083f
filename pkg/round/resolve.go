package round

// roundWinner decides whether the round has ended and who takes the pot
//
// The round ends on a direct win (a player reached Siglo) or when nobody is left to act while
// someone has not busted. In the second case the highest total among players who stood wins and
// ties go to the first in turn order. If everyone busted there is no winner.
func (r *Record) roundWinner() (winner *Player, showdown bool) {
	if w := r.Winner(); w != nil {
		return w, false
	}

	var best *Player
	bestTotal := -1
	for _, p := range r.Players {
		switch p.Status {
		case StatusPlaying:
			return nil, false
		case StatusStood:
			if total := r.Total(p); total > bestTotal {
				best = p
				bestTotal = total
			}
		}
	}

	if best == nil {
		return nil, false
	}

	return best, true
}

// settleIfOver pays the pot to the winner and finishes the round if it has ended
// Returns true if the round was settled.
func (r *Record) settleIfOver() bool {
	if r.RoundState != StateInRound {
		return false
	}

	winner, _ := r.roundWinner()
	if winner == nil {
		return false
	}

	winner.Status = StatusWinner
	winner.Coins += r.Pot
	r.Pot = 0
	r.RoundState = StateFinished
	return true
}

// NeedsSettlement returns true if the round has ended but the pot has not been paid
func (r *Record) NeedsSettlement() bool {
	if r.RoundState != StateInRound {
		return false
	}

	winner, _ := r.roundWinner()
	return winner != nil
}

// Resolve settles a round that has ended
// Resolving a finished round is a no-op and returns cur itself, so repeated calls never pay twice.
func Resolve(cur *Record) (*Record, error) {
	if cur.RoundState == StateFinished {
		return cur, nil
	}

	if cur.RoundState != StateInRound {
		return nil, ErrRoundNotActive
	}

	next := cur.Clone()
	if !next.settleIfOver() {
		return nil, ErrRoundNotOver
	}

	return next, nil
}

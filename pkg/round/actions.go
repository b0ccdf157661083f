package round

import (
	"siglo-server/internal/rng"
	"siglo-server/pkg/tiles"
)

// DrawTile draws a random tile from the deck into the player's hand
// The round is settled in the same transition if the draw ends it.
func DrawTile(cur *Record, gen rng.Generator, playerID string) (*Record, int, error) {
	if cur.RoundState != StateInRound {
		return nil, 0, ErrRoundNotActive
	}

	p, _ := cur.Player(playerID)
	if p == nil {
		return nil, 0, ErrPlayerNotFound
	}

	if p.Status != StatusPlaying {
		return nil, 0, ErrNotPlaying
	}

	tile, rest, err := tiles.DrawRandom(gen, cur.Deck)
	if err != nil {
		return nil, 0, ErrDeckEmpty
	}

	next := cur.Clone()
	p, _ = next.Player(playerID)
	next.Deck = rest
	next.DrawnTiles = append(next.DrawnTiles, tile)
	p.Hand = append(p.Hand, tile)

	next.reclassify(p)
	next.settleIfOver()

	return next, tile, nil
}

// ToggleWildcard flips whether the wildcard counts toward the player's total
// Status is recomputed from scratch, so toggling off can bring a busted hand back into play.
func ToggleWildcard(cur *Record, playerID string) (*Record, error) {
	if cur.RoundState != StateInRound {
		return nil, ErrRoundNotActive
	}

	p, _ := cur.Player(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	switch p.Status {
	case StatusPlaying, StatusBusted:
	case StatusStood:
		return nil, ErrHandFrozen
	default:
		return nil, ErrNotPlaying
	}

	next := cur.Clone()
	p, _ = next.Player(playerID)
	p.WildcardActive = !p.WildcardActive

	next.reclassify(p)
	next.settleIfOver()

	return next, nil
}

// Stand freezes the player's hand
func Stand(cur *Record, playerID string) (*Record, error) {
	if cur.RoundState != StateInRound {
		return nil, ErrRoundNotActive
	}

	p, _ := cur.Player(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	if p.Status != StatusPlaying {
		return nil, ErrNotPlaying
	}

	next := cur.Clone()
	p, _ = next.Player(playerID)
	p.Status = StatusStood

	next.settleIfOver()

	return next, nil
}

// AdvanceTurn moves the turn to the next player who is still playing
// At most len(players) candidates are examined. If none of them is playing the index ends on the
// last candidate examined, which is the current index, and cur itself is returned.
// Advancing never settles the round.
func AdvanceTurn(cur *Record) *Record {
	n := len(cur.Players)
	if n == 0 {
		return cur
	}

	idx := (cur.CurrentTurnIndex + 1) % n
	for attempts := 1; attempts < n; attempts++ {
		if cur.Players[idx].Status == StatusPlaying {
			break
		}

		idx = (idx + 1) % n
	}

	if idx == cur.CurrentTurnIndex {
		return cur
	}

	next := cur.Clone()
	next.CurrentTurnIndex = idx
	return next
}

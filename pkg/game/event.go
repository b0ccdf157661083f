package game

import (
	"siglo-server/pkg/round"
)

// Action names an operation on a room
type Action string

// Action constants
const (
	ActionCreate   Action = "create"
	ActionJoin     Action = "join"
	ActionReady    Action = "ready"
	ActionStart    Action = "start"
	ActionRemove   Action = "remove"
	ActionLeave    Action = "leave"
	ActionDraw     Action = "draw"
	ActionWildcard Action = "wildcard"
	ActionStand    Action = "stand"
	ActionTurn     Action = "turn"
	ActionBet      Action = "bet"
	ActionResolve  Action = "resolve"
)

// Event describes a committed action
type Event struct {
	Action   Action
	PlayerID string
	// Tile is the drawn tile for ActionDraw
	Tile   int
	Record *round.Record
	// Payout is the pot paid out when this commit settled the round
	Payout int
}

// Settled returns true if this commit paid out a pot
func (e *Event) Settled() bool {
	return e.Payout > 0
}

// Observer is notified after every commit
// RecordCommitted is called synchronously from the action, so it must return quickly.
type Observer interface {
	RecordCommitted(e *Event)
}

// ObserverFunc adapts a function to an Observer
type ObserverFunc func(e *Event)

// RecordCommitted calls f(e)
func (f ObserverFunc) RecordCommitted(e *Event) {
	f(e)
}

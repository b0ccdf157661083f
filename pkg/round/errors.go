package round

import (
	"errors"
	"fmt"
)

// Kind classifies a failed action
type Kind int

// Kind constants
const (
	KindUnknown Kind = iota
	// KindNotFound is a missing room or player
	KindNotFound
	// KindFull is a join beyond capacity
	KindFull
	// KindDuplicateEntry is a rejoin with the same id or an existing room code
	KindDuplicateEntry
	// KindForbidden is a host-only action attempted by someone else, or a host removing themselves
	KindForbidden
	// KindEmptyResource is a draw from an empty deck
	KindEmptyResource
	// KindInvalidAmount is a wager outside the allowed range
	KindInvalidAmount
	// KindInvalidState is an action that is not legal in the current round state
	KindInvalidState
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindNotFound:       "not_found",
	KindFull:           "full",
	KindDuplicateEntry: "duplicate_entry",
	KindForbidden:      "forbidden",
	KindEmptyResource:  "empty_resource",
	KindInvalidAmount:  "invalid_amount",
	KindInvalidState:   "invalid_state",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return kindNames[KindUnknown]
}

// Retryable returns true if the same action may succeed later without different input
func (k Kind) Retryable() bool {
	switch k {
	case KindForbidden, KindInvalidAmount, KindInvalidState:
		return false
	default:
		return true
	}
}

// Error is an action failure that is safe to return to a client
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrGameNotFound is returned when the room does not exist
var ErrGameNotFound = &Error{Kind: KindNotFound, Message: "game not found"}

// ErrPlayerNotFound is returned when the player is not seated in the room
var ErrPlayerNotFound = &Error{Kind: KindNotFound, Message: "player not found"}

// ErrGameFull is returned when a join would exceed MaxPlayers
var ErrGameFull = &Error{Kind: KindFull, Message: "game is full"}

// ErrDuplicatePlayer is returned when the player is already in the room
var ErrDuplicatePlayer = &Error{Kind: KindDuplicateEntry, Message: "player already in game"}

// ErrDuplicateRoom is returned when a room code is already taken
var ErrDuplicateRoom = &Error{Kind: KindDuplicateEntry, Message: "room already exists"}

// ErrNotHost is returned when a host-only action is attempted by another player
var ErrNotHost = &Error{Kind: KindForbidden, Message: "only host can perform this action"}

// ErrCannotRemoveSelf is returned when the host tries to remove themselves
var ErrCannotRemoveSelf = &Error{Kind: KindForbidden, Message: "host cannot remove themselves"}

// ErrDeckEmpty is returned when a draw is attempted on an empty deck
var ErrDeckEmpty = &Error{Kind: KindEmptyResource, Message: "deck is empty"}

// ErrNoPlayers is returned when a round is started in an empty room
var ErrNoPlayers = &Error{Kind: KindInvalidState, Message: "no players in game"}

// ErrRoundNotActive is returned when a turn action is attempted outside of a round
var ErrRoundNotActive = &Error{Kind: KindInvalidState, Message: "round is not in progress"}

// ErrRoundInProgress is returned when a round is started while another is being played
var ErrRoundInProgress = &Error{Kind: KindInvalidState, Message: "round already in progress"}

// ErrRoundNotOver is returned when resolution is requested before the round has ended
var ErrRoundNotOver = &Error{Kind: KindInvalidState, Message: "round is not over"}

// ErrNotPlaying is returned when a player who can no longer act attempts a turn action
var ErrNotPlaying = &Error{Kind: KindInvalidState, Message: "player is not playing"}

// ErrHandFrozen is returned when a player who stood toggles the wildcard
var ErrHandFrozen = &Error{Kind: KindInvalidState, Message: "hand is frozen"}

// ErrNotRebetting is returned when a bet is placed while some player has not busted
var ErrNotRebetting = &Error{Kind: KindInvalidState, Message: "bets are only accepted when every player has busted"}

// InvalidAmountError returns an error for a wager outside [min, max]
func InvalidAmountError(min, max int) *Error {
	if max < min {
		return &Error{Kind: KindInvalidAmount, Message: fmt.Sprintf("bet must be at least %d, not enough coins", min)}
	}

	return &Error{Kind: KindInvalidAmount, Message: fmt.Sprintf("bet must be between %d and %d", min, max)}
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

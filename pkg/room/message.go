package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"siglo-server/pkg/game"
	"siglo-server/pkg/round"
)

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action         string         `json:"action"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns an integer value for the given key
func (a AdditionalData) GetInt(key string) (int, bool) {
	floatVal, ok := a[key].(float64)
	if !ok {
		return 0, false
	}

	return int(floatVal), true
}

// GetBool returns a boolean value for the given key
func (a AdditionalData) GetBool(key string) (bool, bool) {
	boolVal, ok := a[key].(bool)
	return boolVal, ok
}

// Response is a message sent to a client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// OK returns a generic success response
func OK(ctx string, data ...interface{}) *Response {
	res := &Response{
		Key:     "status",
		Value:   "OK",
		Context: ctx,
	}

	if len(data) == 1 {
		res.Data = data[0]
	}

	return res
}

type errorData struct {
	Kind      string `json:"kind"`
	Retryable bool   `json:"retryable"`
}

func newErrorResponse(ctx string, err error) *Response {
	kind := round.KindOf(err)
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
		Data: errorData{
			Kind:      kind.String(),
			Retryable: kind.Retryable(),
		},
	}
}

func newRoundResponse(r *round.Record) *Response {
	return &Response{
		Key:  "round",
		Data: r.View(),
	}
}

// LogMessage is a line in the room's activity feed
type LogMessage struct {
	UUID      string    `json:"uuid"`
	PlayerIDs []string  `json:"playerIds"`
	Tiles     []int     `json:"tiles,omitempty"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

func newLogMessage(playerID string, format string, a ...interface{}) *LogMessage {
	var playerIDs []string
	if playerID != "" {
		playerIDs = []string{playerID}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}

// logMessagesForEvent describes a commit for the activity feed
// Messages naming a player read as "{player} did X".
func logMessagesForEvent(e *game.Event) []*LogMessage {
	r := e.Record
	var messages []*LogMessage

	switch e.Action {
	case game.ActionJoin:
		messages = append(messages, newLogMessage(e.PlayerID, "joined"))
	case game.ActionLeave:
		messages = append(messages, newLogMessage(e.PlayerID, "left"))
	case game.ActionRemove:
		messages = append(messages, newLogMessage(e.PlayerID, "was removed by the host"))
	case game.ActionStart:
		messages = append(messages, newLogMessage("", "round started with a pot of %d, wildcard is %d", r.Pot, r.Wildcard.Value))
	case game.ActionDraw:
		msg := newLogMessage(e.PlayerID, "drew %d", e.Tile)
		msg.Tiles = []int{e.Tile}
		messages = append(messages, msg)
	case game.ActionWildcard:
		if p, _ := r.Player(e.PlayerID); p != nil {
			state := "off"
			if p.WildcardActive {
				state = "on"
			}
			messages = append(messages, newLogMessage(e.PlayerID, "turned the wildcard %s", state))
		}
	case game.ActionStand:
		messages = append(messages, newLogMessage(e.PlayerID, "stood"))
	case game.ActionBet:
		if p, _ := r.Player(e.PlayerID); p != nil && r.AllBusted() {
			messages = append(messages, newLogMessage(e.PlayerID, "bet %d", p.Bet))
		} else {
			messages = append(messages, newLogMessage("", "everyone is in for %d, new round dealt", r.BaseBet))
		}
	}

	if p, _ := r.Player(e.PlayerID); p != nil && p.Status == round.StatusBusted && e.Action == game.ActionDraw {
		messages = append(messages, newLogMessage(e.PlayerID, "busted with %d", r.Total(p)))
	}

	if e.Settled() {
		if w := r.Winner(); w != nil {
			messages = append(messages, newLogMessage(w.ID, "won %d", e.Payout))
		}
	}

	if e.Action != game.ActionBet && r.RoundState == round.StateInRound && r.AllBusted() {
		messages = append(messages, newLogMessage("", "everyone busted, place your bets"))
	}

	return messages
}

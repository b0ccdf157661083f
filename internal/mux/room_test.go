package mux

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"siglo-server/pkg/round"
)

func TestRoom_Lifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	a := token(t, "a")
	b := token(t, "b")

	var view round.View
	assertPost(t, ts, "/room", postRoomPayload{RoomCode: "ROOM1"}, &view, 201, a)
	assert.Equal(t, "ROOM1", view.RoomCode)
	assert.Equal(t, "a", view.HostID)
	assert.Equal(t, 100, view.BaseBet)
	assert.Equal(t, round.StateLobby, view.RoundState)

	var errObj errorResponse
	assertPost(t, ts, "/room", postRoomPayload{RoomCode: "ROOM1"}, &errObj, 409, b)
	assert.Equal(t, "duplicate_entry", errObj.Kind)

	assertPost(t, ts, "/room", postRoomPayload{RoomCode: "no spaces"}, &errObj, 400, a)
	assertPost(t, ts, "/room", "{", &errObj, 400, a)

	assertGet(t, ts, "/room/NOPE", &errObj, 404, a)
	assert.Equal(t, "game not found", errObj.Message)

	assertPost(t, ts, "/room/ROOM1/join", postRoomJoinPayload{Name: "Alice", Coins: 1000}, &view, 200, a)
	assertPost(t, ts, "/room/ROOM1/join", postRoomJoinPayload{Coins: 1000}, &view, 200, b)
	require.Len(t, view.Players, 2)
	assert.Equal(t, "Alice", view.Players[0].Name)
	assert.NotEmpty(t, view.Players[1].Name)

	assertPost(t, ts, "/room/ROOM1/join", postRoomJoinPayload{Coins: 1000}, &errObj, 409, b)

	assertPost(t, ts, "/room/ROOM1/ready", postRoomReadyPayload{Ready: true}, &view, 200, b)
	assert.True(t, view.Players[1].IsReady)

	errObj = errorResponse{}
	assertPost(t, ts, "/room/ROOM1/start", "", &errObj, 403, b)
	assert.Equal(t, "forbidden", errObj.Kind)
	assert.False(t, errObj.Retryable)

	assertPost(t, ts, "/room/ROOM1/start", "", &view, 200, a)
	assert.Equal(t, round.StateInRound, view.RoundState)
	assert.Equal(t, 200, view.Pot)
	assert.Equal(t, "a", view.CurrentPlayerID)
	assert.Equal(t, 87, view.TilesLeft)

	assertPost(t, ts, "/room/ROOM1/bet", postRoomBetPayload{Amount: 100}, &errObj, 409, a)
	assert.Equal(t, "invalid_state", errObj.Kind)

	assertPost(t, ts, "/room/ROOM1/resolve", "", &errObj, 409, a)
	assert.Equal(t, "round is not over", errObj.Message)

	assertPost(t, ts, "/room/ROOM1/stand", "", &view, 200, a)
	assertPost(t, ts, "/room/ROOM1/turn", "", &view, 200, b)
	assert.Equal(t, "b", view.CurrentPlayerID)

	assertPost(t, ts, "/room/ROOM1/stand", "", &view, 200, b)
	assert.Equal(t, round.StateFinished, view.RoundState)
	require.NotEmpty(t, view.WinnerID)
	assert.Equal(t, 0, view.Pot)

	coins := 0
	for _, p := range view.Players {
		coins += p.Coins
		if p.ID == view.WinnerID {
			assert.Equal(t, 1200, p.Coins)
		}
	}
	assert.Equal(t, 2200, coins)

	assertPost(t, ts, "/room/ROOM1/stand", "", &errObj, 409, a)
	assertPost(t, ts, "/room/ROOM1/resolve", "", &view, 200, a)
	assert.Equal(t, round.StateFinished, view.RoundState)

	assertGet(t, ts, "/room/ROOM1", &view, 200, b)
	assert.Equal(t, round.StateFinished, view.RoundState)
}

func TestRoom_Draw(t *testing.T) {
	ts, service := newTestServer(t)
	a := token(t, "a")

	_, err := service.Create(cbg, "ROOM1", "a", 100)
	require.NoError(t, err)
	_, err = service.Join(cbg, "ROOM1", "a", "Alice", 1000)
	require.NoError(t, err)
	_, err = service.Join(cbg, "ROOM1", "b", "Bob", 1000)
	require.NoError(t, err)

	var errObj errorResponse
	assertPost(t, ts, "/room/ROOM1/draw", "", &errObj, 409, a)
	assert.Equal(t, "round is not in progress", errObj.Message)

	_, err = service.Start(cbg, "ROOM1", "a")
	require.NoError(t, err)

	var resp postRoomDrawResponse
	assertPost(t, ts, "/room/ROOM1/draw", "", &resp, 200, a)
	assert.True(t, resp.Tile >= 1 && resp.Tile <= 90, "tile out of range: %d", resp.Tile)
	require.NotNil(t, resp.Round)
	assert.Contains(t, resp.Round.Players[0].Hand, resp.Tile)
	assert.Equal(t, []int{resp.Tile}, resp.Round.DrawnTiles)
	assert.Equal(t, 86, resp.Round.TilesLeft)

	assertPost(t, ts, "/room/ROOM1/draw", "", &errObj, 404, token(t, "c"))
}

func TestRoom_WildcardLeaveAndRemove(t *testing.T) {
	ts, service := newTestServer(t)
	a := token(t, "a")
	b := token(t, "b")

	_, err := service.Create(cbg, "ROOM1", "a", 100)
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c"} {
		_, err = service.Join(cbg, "ROOM1", id, "", 1000)
		require.NoError(t, err)
	}

	var view round.View
	var errObj errorResponse
	assertPost(t, ts, "/room/ROOM1/wildcard", "", &errObj, 409, a)

	_, err = service.Start(cbg, "ROOM1", "a")
	require.NoError(t, err)

	assertPost(t, ts, "/room/ROOM1/wildcard", "", &view, 200, a)
	assert.True(t, view.Players[0].WildcardActive)
	assert.True(t, view.Wildcard.Revealed)

	assertDelete(t, ts, "/room/ROOM1/player/c", &errObj, 403, b)
	assertDelete(t, ts, "/room/ROOM1/player/a", &errObj, 403, a)
	assert.Equal(t, "host cannot remove themselves", errObj.Message)

	assertDelete(t, ts, "/room/ROOM1/player/c", &view, 200, a)
	require.Len(t, view.Players, 2)

	assertPost(t, ts, "/room/ROOM1/leave", "", &view, 200, a)
	require.Len(t, view.Players, 1)
	assert.Equal(t, "b", view.HostID)
}

func TestRoom_Unauthorized(t *testing.T) {
	ts, _ := newTestServer(t)

	var errObj errorResponse
	assertPost(t, ts, "/room", postRoomPayload{RoomCode: "ROOM1"}, &errObj, 401)
	assertGet(t, ts, "/room/ROOM1", &errObj, 401)
}

type wsMessage struct {
	Key     string          `json:"key"`
	Value   string          `json:"value"`
	Context string          `json:"context"`
	Data    json.RawMessage `json:"data"`
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(msg wsMessage) bool) wsMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func TestRoom_WebSocket(t *testing.T) {
	ts, service := newTestServer(t)

	_, err := service.Create(cbg, "ROOM1", "a", 100)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/room/ROOM1/ws?access_token=" + url.QueryEscape(token(t, "a"))

	_, resp, err := websocket.DefaultDialer.Dial(strings.Replace(wsURL, "ROOM1", "NOPE", 1), nil)
	assert.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readUntil(t, conn, func(msg wsMessage) bool { return msg.Key == "round" })
	var view round.View
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	assert.Equal(t, "ROOM1", view.RoomCode)
	assert.Empty(t, view.Players)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"action":         "join",
		"additionalData": map[string]interface{}{"name": "Alice", "coins": 1000},
		"context":        "join-1",
	}))

	msg = readUntil(t, conn, func(msg wsMessage) bool { return msg.Context == "join-1" })
	assert.Equal(t, "status", msg.Key)
	assert.Equal(t, "OK", msg.Value)

	msg = readUntil(t, conn, func(msg wsMessage) bool {
		if msg.Key != "round" {
			return false
		}

		var v round.View
		return json.Unmarshal(msg.Data, &v) == nil && len(v.Players) == 1
	})
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	assert.Equal(t, "Alice", view.Players[0].Name)

	// commits made outside the websocket reach the client too
	_, err = service.Join(cbg, "ROOM1", "b", "Bob", 1000)
	require.NoError(t, err)
	readUntil(t, conn, func(msg wsMessage) bool {
		var v round.View
		return msg.Key == "round" && json.Unmarshal(msg.Data, &v) == nil && len(v.Players) == 2
	})

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"action":  "draw",
		"context": "draw-1",
	}))
	msg = readUntil(t, conn, func(msg wsMessage) bool { return msg.Context == "draw-1" })
	assert.Equal(t, "error", msg.Key)
	assert.Equal(t, "round is not in progress", msg.Value)
}

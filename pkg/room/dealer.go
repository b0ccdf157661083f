package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"siglo-server/pkg/game"
	"siglo-server/pkg/round"
)

const actionTimeout = 10 * time.Second

// Dealer is responsible for a single room and its connected clients
type Dealer struct {
	pitBoss  *PitBoss
	service  *game.Service
	roomCode string
	clients  map[*Client]bool
	lock     sync.RWMutex

	// only accessed from the run loop
	logMessages []*LogMessage
	lastVersion int64

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, service *game.Service, roomCode string) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		service:       service,
		roomCode:      roomCode,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := logrus.WithField("roomCode", d.roomCode)

	log.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			log.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client and sends it the current state of the room
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		d.sendClientState()

		r, err := d.service.Get(context.Background(), d.roomCode)
		if err != nil {
			client.Send(newErrorResponse("", err))
			return
		}

		client.Send(newRoundResponse(r))
		if len(d.logMessages) > 0 {
			client.Send(&Response{Key: "log", Data: d.logMessages})
		}
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.execInRunLoop <- d.sendClientState
		return false
	}

	return true
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// Committed broadcasts a committed record to every connected client
func (d *Dealer) Committed(e *game.Event) {
	d.execInRunLoop <- func() {
		messages := logMessagesForEvent(e)
		d.addLogMessages(messages)

		// commits can arrive out of order when actions race
		if e.Record.Version <= d.lastVersion {
			return
		}
		d.lastVersion = e.Record.Version

		res := newRoundResponse(e.Record)
		for _, client := range d.Clients() {
			client.Send(res)
			if len(messages) > 0 {
				client.Send(&Response{Key: "log", Data: messages})
			}
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendClientState() {
	clients := d.Clients()
	connected := make(map[string]bool, len(clients))
	for _, client := range clients {
		connected[client.playerID] = true
	}

	for _, client := range clients {
		client.Send(&Response{
			Key:  "clientState",
			Data: connected,
		})
	}
}

// ReceivedMessage is called when a client sends a message to the server
// The action runs on the caller's goroutine; the new state reaches every client through Committed.
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	data, err := d.performAction(ctx, c, msg)
	if err != nil {
		log := logrus.WithError(err).WithField("client", c.String()).WithField("action", msg.Action)
		if round.KindOf(err) == round.KindUnknown {
			log.Error("could not perform action")
		} else {
			log.Debug("action rejected")
		}

		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(OK(msg.Context, data))
}

func (d *Dealer) performAction(ctx context.Context, c *Client, msg *PayloadIn) (interface{}, error) {
	var err error
	switch msg.Action {
	case "join":
		name, _ := msg.AdditionalData.GetString("name")
		coins, ok := msg.AdditionalData.GetInt("coins")
		if !ok {
			return nil, errors.New("coins is required")
		}

		_, err = d.service.Join(ctx, d.roomCode, c.playerID, name, coins)
	case "ready":
		ready, ok := msg.AdditionalData.GetBool("ready")
		if !ok {
			ready = true
		}

		_, err = d.service.SetReady(ctx, d.roomCode, c.playerID, ready)
	case "start":
		_, err = d.service.Start(ctx, d.roomCode, c.playerID)
	case "remove":
		playerID, ok := msg.AdditionalData.GetString("playerId")
		if !ok {
			return nil, errors.New("playerId is required")
		}

		_, err = d.service.RemovePlayer(ctx, d.roomCode, playerID, c.playerID)
	case "leave":
		_, err = d.service.Leave(ctx, d.roomCode, c.playerID)
	case "draw":
		var tile int
		_, tile, err = d.service.DrawTile(ctx, d.roomCode, c.playerID)
		if err == nil {
			return map[string]int{"tile": tile}, nil
		}
	case "wildcard":
		_, err = d.service.ToggleWildcard(ctx, d.roomCode, c.playerID)
	case "stand":
		_, err = d.service.Stand(ctx, d.roomCode, c.playerID)
	case "turn":
		_, err = d.service.AdvanceTurn(ctx, d.roomCode)
	case "bet":
		amount, ok := msg.AdditionalData.GetInt("amount")
		if !ok {
			return nil, &round.Error{Kind: round.KindInvalidAmount, Message: "amount is required"}
		}

		_, err = d.service.PlaceBet(ctx, d.roomCode, c.playerID, amount)
	case "resolve":
		_, err = d.service.Resolve(ctx, d.roomCode)
	default:
		logrus.WithField("msg", msg).Warn("unknown message")
		return nil, errors.New("unknown action")
	}

	return nil, err
}

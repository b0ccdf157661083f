package room

import (
	"github.com/sirupsen/logrus"
	"siglo-server/pkg/game"
)

// PitBoss is responsible for dispatching clients and commits to the dealer of each room
type PitBoss struct {
	service    *game.Service
	dealers    map[string]*Dealer
	connect    chan *Client
	disconnect chan *Client
	commits    chan *game.Event
	close      chan bool
}

var _ game.Observer = (*PitBoss)(nil)

// NewPitBoss returns a new dispatch object and registers it for commits on the service
func NewPitBoss(service *game.Service) *PitBoss {
	p := &PitBoss{
		service:    service,
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		commits:    make(chan *game.Event, 1024),
		close:      make(chan bool),
	}

	service.AddObserver(p)
	return p
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// EndShift stops the run loop and every dealer
func (p *PitBoss) EndShift() {
	close(p.close)
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("client", client.String()).Debug("client connected")
			dealer, found := p.dealers[client.roomCode]
			if !found {
				dealer = NewDealer(p, p.service, client.roomCode)
				dealer.StartShift()
				p.dealers[client.roomCode] = dealer
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("client", client.String()).Debug("client disconnected")
			dealer, found := p.dealers[client.roomCode]
			if !found {
				logrus.WithField("roomCode", client.roomCode).WithField("type", "exception").Error("room not found")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()
				delete(p.dealers, client.roomCode)
			}
		case e := <-p.commits:
			// rooms nobody is watching have no dealer
			if dealer, found := p.dealers[e.Record.RoomCode]; found {
				dealer.Committed(e)
			}
		case <-p.close:
			for roomCode, dealer := range p.dealers {
				dealer.EndShift()
				delete(p.dealers, roomCode)
			}
			return
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}

// RecordCommitted forwards a commit to the dealer of the room
func (p *PitBoss) RecordCommitted(e *game.Event) {
	select {
	case p.commits <- e:
	default:
		logrus.WithField("roomCode", e.Record.RoomCode).Warn("commit queue full, dropping notification")
	}
}

package game

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"siglo-server/pkg/round"
)

// TurnKeeper keeps rounds moving when nobody is going to act
//
// After a commit that leaves the turn on a player who can no longer act, it advances the turn once
// the delay has passed. A round that has ended without being settled, which can happen when players
// leave mid-round, is resolved the same way.
type TurnKeeper struct {
	service *Service
	clock   quartz.Clock
	delay   time.Duration

	lock   sync.Mutex
	timers map[string]*quartz.Timer
	closed bool
}

var _ Observer = (*TurnKeeper)(nil)

// NewTurnKeeper returns a turn keeper and registers it with the service
func NewTurnKeeper(service *Service, clock quartz.Clock, delay time.Duration) *TurnKeeper {
	k := &TurnKeeper{
		service: service,
		clock:   clock,
		delay:   delay,
		timers:  make(map[string]*quartz.Timer),
	}

	service.AddObserver(k)
	return k
}

// RecordCommitted schedules a nudge for the room if it is stalled
func (k *TurnKeeper) RecordCommitted(e *Event) {
	if !stalled(e.Record) {
		return
	}

	roomCode := e.Record.RoomCode

	k.lock.Lock()
	defer k.lock.Unlock()

	if k.closed {
		return
	}

	if _, ok := k.timers[roomCode]; ok {
		return
	}

	k.timers[roomCode] = k.clock.AfterFunc(k.delay, func() {
		k.nudge(roomCode)
	}, "turnKeeper", roomCode)
}

// Pending returns true if a nudge is scheduled for the room
func (k *TurnKeeper) Pending(roomCode string) bool {
	k.lock.Lock()
	defer k.lock.Unlock()

	_, ok := k.timers[roomCode]
	return ok
}

// Stop cancels every scheduled nudge
func (k *TurnKeeper) Stop() {
	k.lock.Lock()
	defer k.lock.Unlock()

	k.closed = true
	for roomCode, timer := range k.timers {
		timer.Stop()
		delete(k.timers, roomCode)
	}
}

func (k *TurnKeeper) nudge(roomCode string) {
	k.lock.Lock()
	delete(k.timers, roomCode)
	k.lock.Unlock()

	log := logrus.WithField("roomCode", roomCode)
	ctx := context.Background()

	r, err := k.service.Get(ctx, roomCode)
	if err != nil {
		log.WithError(err).Debug("could not load stalled room")
		return
	}

	if r.NeedsSettlement() {
		if _, err := k.service.Resolve(ctx, roomCode); err != nil {
			log.WithError(err).Warn("could not resolve round")
		}
		return
	}

	if stalled(r) {
		if _, err := k.service.AdvanceTurn(ctx, roomCode); err != nil {
			log.WithError(err).Warn("could not advance turn")
		}
	}
}

// stalled returns true if the round needs settling, or if the current player cannot act while another can
func stalled(r *round.Record) bool {
	if r == nil || r.RoundState != round.StateInRound {
		return false
	}

	if r.NeedsSettlement() {
		return true
	}

	current := r.CurrentPlayer()
	if current == nil || current.Status == round.StatusPlaying {
		return false
	}

	for _, p := range r.Players {
		if p.Status == round.StatusPlaying {
			return true
		}
	}

	return false
}

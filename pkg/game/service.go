// Package game exposes the Siglo round actions on top of a store
//
// Each action is exactly one store transaction: the round transition is computed from the freshly
// read record and the result is checked against the record invariants before it is written.
package game

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"siglo-server/internal/rng"
	"siglo-server/internal/util"
	"siglo-server/pkg/round"
	"siglo-server/pkg/store"
)

// Service runs the actions of every room
type Service struct {
	store store.Store
	gen   rng.Generator

	lock      sync.RWMutex
	observers []Observer
}

// NewService returns a service using the given store and random number generator
func NewService(st store.Store, gen rng.Generator) *Service {
	return &Service{
		store: st,
		gen:   gen,
	}
}

// AddObserver registers an observer for committed records
func (s *Service) AddObserver(o Observer) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.observers = append(s.observers, o)
}

func (s *Service) notify(e *Event) {
	s.lock.RLock()
	observers := s.observers
	s.lock.RUnlock()

	for _, o := range observers {
		o.RecordCommitted(e)
	}
}

// Create creates a room in the lobby
// The host is not seated; they join like everybody else.
func (s *Service) Create(ctx context.Context, roomCode, hostID string, baseBet int) (*round.Record, error) {
	r, err := round.New(s.gen, roomCode, hostID, baseBet)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, r)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			return nil, round.ErrDuplicateRoom
		}

		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"roomCode": roomCode,
		"playerId": hostID,
		"baseBet":  baseBet,
	}).Info("room created")

	s.notify(&Event{Action: ActionCreate, PlayerID: hostID, Record: created})
	return created, nil
}

// Get returns the current record of the room
func (s *Service) Get(ctx context.Context, roomCode string) (*round.Record, error) {
	r, err := s.store.Get(ctx, roomCode)
	if err != nil {
		return nil, mapStoreError(err)
	}

	return r, nil
}

// Join seats a player
// A player without a name is given a random one.
func (s *Service) Join(ctx context.Context, roomCode, playerID, name string, coins int) (*round.Record, error) {
	if name == "" {
		name = util.GetRandomName(s.gen)
	}

	return s.transact(ctx, roomCode, &Event{Action: ActionJoin, PlayerID: playerID}, func(cur *round.Record) (*round.Record, error) {
		return round.Join(cur, playerID, name, coins)
	})
}

// SetReady sets the ready flag of a player in the lobby
func (s *Service) SetReady(ctx context.Context, roomCode, playerID string, ready bool) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionReady, PlayerID: playerID}, func(cur *round.Record) (*round.Record, error) {
		return round.SetReady(cur, playerID, ready)
	})
}

// Start deals a new round on behalf of the host
func (s *Service) Start(ctx context.Context, roomCode, byPlayerID string) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionStart, PlayerID: byPlayerID}, func(cur *round.Record) (*round.Record, error) {
		if cur.HostID != byPlayerID {
			return nil, round.ErrNotHost
		}

		return round.Start(cur, s.gen)
	})
}

// RemovePlayer removes a player on behalf of the host
func (s *Service) RemovePlayer(ctx context.Context, roomCode, playerID, byHostID string) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionRemove, PlayerID: playerID}, func(cur *round.Record) (*round.Record, error) {
		return round.RemovePlayer(cur, s.gen, playerID, byHostID)
	})
}

// Leave removes the player at their own request
func (s *Service) Leave(ctx context.Context, roomCode, playerID string) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionLeave, PlayerID: playerID}, func(cur *round.Record) (*round.Record, error) {
		return round.Leave(cur, s.gen, playerID)
	})
}

// DrawTile draws a tile for the player and returns it along with the committed record
func (s *Service) DrawTile(ctx context.Context, roomCode, playerID string) (*round.Record, int, error) {
	e := &Event{Action: ActionDraw, PlayerID: playerID}
	r, err := s.transact(ctx, roomCode, e, func(cur *round.Record) (*round.Record, error) {
		next, tile, err := round.DrawTile(cur, s.gen, playerID)
		if err != nil {
			return nil, err
		}

		e.Tile = tile
		return next, nil
	})
	if err != nil {
		return nil, 0, err
	}

	return r, e.Tile, nil
}

// ToggleWildcard flips whether the wildcard counts for the player
func (s *Service) ToggleWildcard(ctx context.Context, roomCode, playerID string) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionWildcard, PlayerID: playerID}, func(cur *round.Record) (*round.Record, error) {
		return round.ToggleWildcard(cur, playerID)
	})
}

// Stand freezes the player's hand
func (s *Service) Stand(ctx context.Context, roomCode, playerID string) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionStand, PlayerID: playerID}, func(cur *round.Record) (*round.Record, error) {
		return round.Stand(cur, playerID)
	})
}

// AdvanceTurn moves the turn to the next player who can act
func (s *Service) AdvanceTurn(ctx context.Context, roomCode string) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionTurn}, func(cur *round.Record) (*round.Record, error) {
		return round.AdvanceTurn(cur), nil
	})
}

// PlaceBet records a re-bet for the player
func (s *Service) PlaceBet(ctx context.Context, roomCode, playerID string, amount int) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionBet, PlayerID: playerID}, func(cur *round.Record) (*round.Record, error) {
		return round.PlaceBet(cur, s.gen, playerID, amount)
	})
}

// Resolve settles a round that has ended
func (s *Service) Resolve(ctx context.Context, roomCode string) (*round.Record, error) {
	return s.transact(ctx, roomCode, &Event{Action: ActionResolve}, round.Resolve)
}

// transact runs fn as a single store transaction and notifies observers when something was written
// e is filled in with the committed record.
func (s *Service) transact(ctx context.Context, roomCode string, e *Event, fn store.TransactFunc) (*round.Record, error) {
	log := logrus.WithFields(logrus.Fields{
		"roomCode": roomCode,
		"playerId": e.PlayerID,
		"action":   e.Action,
	})

	var written, abandoned bool
	r, err := s.store.Transact(ctx, roomCode, func(cur *round.Record) (*round.Record, error) {
		written = false
		abandoned = false
		e.Payout = 0

		next, err := fn(cur)
		if err != nil {
			return nil, err
		}

		if next == cur {
			return cur, nil
		}

		if err := next.Validate(); err != nil {
			return nil, err
		}

		if cur.RoundState == round.StateInRound && next.RoundState == round.StateFinished {
			if next.Winner() != nil {
				e.Payout = cur.Pot
			} else {
				abandoned = true
			}
		}

		written = true
		return next, nil
	})
	if err != nil {
		err = mapStoreError(err)

		var invErr round.InvariantError
		if errors.As(err, &invErr) {
			log.WithError(err).Error("rejected inconsistent record")
		} else {
			log.WithError(err).Debug("action failed")
		}

		return nil, err
	}

	if !written {
		return r, nil
	}

	log.WithField("version", r.Version).Debug("committed")
	if abandoned {
		log.Info("round abandoned")
	} else if e.Settled() {
		winner := r.Winner()
		log.WithFields(logrus.Fields{
			"winnerId": winner.ID,
			"pot":      e.Payout,
		}).Info("round settled")
	}

	e.Record = r
	s.notify(e)
	return r, nil
}

func mapStoreError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return round.ErrGameNotFound
	}

	return err
}

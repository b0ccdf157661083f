package mux

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"siglo-server/internal/config"
	"siglo-server/pkg/game"
	"siglo-server/pkg/round"
)

type postRoomPayload struct {
	RoomCode       string `json:"roomCode"`
	BaseBet        int    `json:"baseBet"`
	RecaptchaToken string `json:"recaptchaToken"`
}

func (m *Mux) postRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postRoomPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !roomCodeRegexp.MatchString(pp.RoomCode) {
			writeJSONError(w, http.StatusBadRequest, errors.New("roomCode must be 1-32 letters, digits, dashes or underscores"))
			return
		}

		if m.recaptcha != nil {
			if err := m.recaptcha.Verify(pp.RecaptchaToken); err != nil {
				logrus.WithError(err).WithField("remoteAddr", remoteAddr(r)).Warn("recaptcha failed")
				writeJSONError(w, http.StatusBadRequest, errors.New("could not verify recaptcha token"))
				return
			}
		}

		if pp.BaseBet == 0 {
			pp.BaseBet = config.Instance().Game.DefaultBaseBet
		}

		rec, err := m.service.Create(r.Context(), pp.RoomCode, playerIDFromContext(r.Context()), pp.BaseBet)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, rec.View())
	}
}

func (m *Mux) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := m.service.Get(r.Context(), mux.Vars(r)["code"])
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, rec.View())
	}
}

type postRoomJoinPayload struct {
	Name  string `json:"name"`
	Coins int    `json:"coins"`
}

func (m *Mux) postRoomJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postRoomJoinPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		rec, err := m.service.Join(r.Context(), mux.Vars(r)["code"], playerIDFromContext(r.Context()), pp.Name, pp.Coins)
		writeRoundResult(w, rec, err)
	}
}

type postRoomReadyPayload struct {
	Ready bool `json:"ready"`
}

func (m *Mux) postRoomReady() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postRoomReadyPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		rec, err := m.service.SetReady(r.Context(), mux.Vars(r)["code"], playerIDFromContext(r.Context()), pp.Ready)
		writeRoundResult(w, rec, err)
	}
}

// postRoomAction handles the actions that take no payload
func (m *Mux) postRoomAction(action game.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		code := mux.Vars(r)["code"]
		playerID := playerIDFromContext(ctx)

		var rec *round.Record
		var err error
		switch action {
		case game.ActionStart:
			rec, err = m.service.Start(ctx, code, playerID)
		case game.ActionLeave:
			rec, err = m.service.Leave(ctx, code, playerID)
		case game.ActionWildcard:
			rec, err = m.service.ToggleWildcard(ctx, code, playerID)
		case game.ActionStand:
			rec, err = m.service.Stand(ctx, code, playerID)
		case game.ActionTurn:
			rec, err = m.service.AdvanceTurn(ctx, code)
		case game.ActionResolve:
			rec, err = m.service.Resolve(ctx, code)
		default:
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		writeRoundResult(w, rec, err)
	}
}

type postRoomDrawResponse struct {
	Tile  int         `json:"tile"`
	Round *round.View `json:"round"`
}

func (m *Mux) postRoomDraw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, tile, err := m.service.DrawTile(r.Context(), mux.Vars(r)["code"], playerIDFromContext(r.Context()))
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, postRoomDrawResponse{
			Tile:  tile,
			Round: rec.View(),
		})
	}
}

type postRoomBetPayload struct {
	Amount int `json:"amount"`
}

func (m *Mux) postRoomBet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postRoomBetPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		rec, err := m.service.PlaceBet(r.Context(), mux.Vars(r)["code"], playerIDFromContext(r.Context()), pp.Amount)
		writeRoundResult(w, rec, err)
	}
}

func (m *Mux) deleteRoomPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		rec, err := m.service.RemovePlayer(r.Context(), vars["code"], vars["id"], playerIDFromContext(r.Context()))
		writeRoundResult(w, rec, err)
	}
}

func writeRoundResult(w http.ResponseWriter, rec *round.Record, err error) {
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec.View())
}

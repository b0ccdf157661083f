package mux

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	gmux "github.com/gorilla/mux"
	"siglo-server/internal/jwt"
	"siglo-server/pkg/game"
	"siglo-server/pkg/room"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
)

// PlayerIDHeader is set on authenticated responses
const PlayerIDHeader = "Siglo-PlayerID"

const roomCodeExpr = "[A-Za-z0-9_-]{1,32}"
const roomCodePattern = "{code:" + roomCodeExpr + "}"

var roomCodeRegexp = regexp.MustCompile("^" + roomCodeExpr + "$")

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version   string
	service   *game.Service
	recaptcha recaptcha
	pitBoss   *room.PitBoss

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, service *game.Service) *Mux {
	pitBoss := room.NewPitBoss(service)
	pitBoss.StartShift()

	this := &Mux{
		Router:    gmux.NewRouter(),
		version:   version,
		service:   service,
		pitBoss:   pitBoss,
		recaptcha: newRecaptcha(),
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	}

	// requires bearer authorization
	{
		r := this.authRouter
		r.Methods(http.MethodPost).Path("/room").Handler(this.postRoom())

		rr := r.PathPrefix("/room/" + roomCodePattern).Subrouter()
		rr.Methods(http.MethodGet).Path("").Handler(this.getRoom())
		rr.Methods(http.MethodGet).Path("/ws").Handler(this.getRoomWS())
		rr.Methods(http.MethodPost).Path("/join").Handler(this.postRoomJoin())
		rr.Methods(http.MethodPost).Path("/ready").Handler(this.postRoomReady())
		rr.Methods(http.MethodPost).Path("/start").Handler(this.postRoomAction(game.ActionStart))
		rr.Methods(http.MethodPost).Path("/leave").Handler(this.postRoomAction(game.ActionLeave))
		rr.Methods(http.MethodPost).Path("/draw").Handler(this.postRoomDraw())
		rr.Methods(http.MethodPost).Path("/wildcard").Handler(this.postRoomAction(game.ActionWildcard))
		rr.Methods(http.MethodPost).Path("/stand").Handler(this.postRoomAction(game.ActionStand))
		rr.Methods(http.MethodPost).Path("/turn").Handler(this.postRoomAction(game.ActionTurn))
		rr.Methods(http.MethodPost).Path("/bet").Handler(this.postRoomBet())
		rr.Methods(http.MethodPost).Path("/resolve").Handler(this.postRoomAction(game.ActionResolve))
		rr.Methods(http.MethodDelete).Path("/player/{id}").Handler(this.deleteRoomPlayer())
	}

	return this
}

// Close stops the websocket dispatcher
func (m *Mux) Close() {
	m.pitBoss.EndShift()
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		playerID, err := jwt.ValidPlayerID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, playerID)
		w.Header().Set(PlayerIDHeader, playerID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func playerIDFromContext(ctx context.Context) string {
	return ctx.Value(ctxPlayerKey).(string)
}

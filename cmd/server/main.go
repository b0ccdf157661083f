package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"siglo-server/internal/config"
	"siglo-server/internal/jwt"
	"siglo-server/internal/mux"
	"siglo-server/internal/rng"
	"siglo-server/pkg/db"
	"siglo-server/pkg/game"
	"siglo-server/pkg/store"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	jwt.LoadKeys()

	if config.Instance().RecaptchaSecret == "" {
		logrus.Warn("no recaptcha secret configured, room creation is not protected")
	}

	st, err := newStore()
	if err != nil {
		logrus.WithError(err).Fatal("could not set up the store")
	}

	service := game.NewService(st, rng.Crypto{})
	turnKeeper := game.NewTurnKeeper(service, quartz.NewReal(), config.Instance().TurnDelay())
	defer turnKeeper.Stop()

	m := mux.NewMux(Version, service)
	defer m.Close()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		ExposedHeaders: []string{mux.PlayerIDHeader},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(m)),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("server stopped")
	}
}

func newStore() (store.Store, error) {
	cfg := config.Instance()
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logrus.Info("using in-memory store")
		return store.NewMemory(cfg.Store.MaxRetries), nil
	case config.DriverPostgres:
		// run the db migrations
		if err := db.Migrate(); err != nil {
			return nil, err
		}

		return store.NewPostgres(db.Instance(), cfg.Store.MaxRetries), nil
	default:
		return nil, errors.New("unknown store driver: " + cfg.Store.Driver)
	}
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(config.Instance().Log.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

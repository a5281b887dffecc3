// README: Entry point; loads config, wires services, starts the webhook server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"railbot/internal/config"
	"railbot/internal/dialog"
	httptransport "railbot/internal/http"
	"railbot/internal/infra"
	"railbot/internal/modules/profile"
	"railbot/internal/modules/session"
	"railbot/internal/modules/trip"
	"railbot/internal/trainline"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres init")
	}
	redisClient := infra.NewRedis(cfg.Redis.Addr)

	profileStore := profile.NewStore(dbPool)
	profileSvc := profile.NewService(profileStore)

	trainlineClient := trainline.NewClient(cfg.Trainline.BaseURL)
	tripSvc := trip.NewService(trainlineClient, trainlineClient, profileStore)

	sessionStore := session.NewStore(redisClient, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	dispatcher := dialog.NewDispatcher(profileSvc, tripSvc)

	router := httptransport.NewRouter(httptransport.ServerDeps{
		Dispatcher:   dispatcher,
		Sessions:     sessionStore,
		WebhookToken: cfg.HTTP.WebhookToken,
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server")
	}
}

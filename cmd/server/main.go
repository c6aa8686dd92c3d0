package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/katakuxiko/trivia/internal/api"
	"github.com/katakuxiko/trivia/internal/app"
	"github.com/katakuxiko/trivia/internal/config"
	"github.com/katakuxiko/trivia/internal/logging"
)

func main() {
	logging.Init(os.Getenv("DEBUG") != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// config
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// services
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init app")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	// api
	srv := api.New()
	var history api.HistoryReader
	if a.Store != nil {
		history = a.Store
	}
	api.RegisterRoutes(srv, a.Solver, history)

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()

	log.Info().Str("addr", cfg.ServerAddr).Strs("processors", a.Solver.Processors()).Msg("server started")
	if err := srv.Listen(cfg.ServerAddr); err != nil {
		log.Error().Err(err).Msg("listen")
	}
}

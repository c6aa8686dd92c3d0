package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/katakuxiko/trivia/internal/app"
	"github.com/katakuxiko/trivia/internal/config"
	"github.com/katakuxiko/trivia/internal/logging"
)

var debug bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trivia",
		Short:         "trivia answers multiple choice questions with hosted language models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Init(debug)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.AddCommand(solveCmd(), ocrCmd(), pdfCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// withApp loads the configuration, builds the app and closes it after fn.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		_ = cfg.Close(ctx)
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()
	return fn(a)
}

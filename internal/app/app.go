// Package app wires configuration into a ready-to-use solver.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/katakuxiko/trivia/internal/config"
	"github.com/katakuxiko/trivia/internal/service"
	"github.com/katakuxiko/trivia/internal/store"
	"github.com/katakuxiko/trivia/internal/tracing"
)

// App owns everything built from a Config.
type App struct {
	Config *config.Config
	Solver *service.Solver
	// Store is nil when PG_CONN is unset.
	Store *store.PgStore
}

// Processors builds the model processors in dispatch order, each
// instrumented with tracer and using an instrumented HTTP client.
func Processors(ctx context.Context, cfg *config.Config, tp trace.TracerProvider) ([]service.Processor, error) {
	hc := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(tp))}

	gemini, err := service.NewGeminiProcessor(ctx, cfg.GeminiModel, service.GeminiConfig(cfg.GeminiAPIKey, hc))
	if err != nil {
		return nil, err
	}

	tracer := tp.Tracer(tracing.TracerName)
	return []service.Processor{
		service.Instrument(service.NewGPT4Processor(cfg.OpenAIAPIKey, cfg.OpenAIModel, hc), tracer),
		service.Instrument(service.NewPerplexityProcessor(cfg.PerplexityAPIKey, cfg.PerplexityModel, hc), tracer),
		service.Instrument(gemini, tracer),
	}, nil
}

// New builds the solver and, when configured, the history store.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	processors, err := Processors(ctx, cfg, cfg.Tracer)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	var history service.History
	if cfg.PgConn != "" {
		s, err := store.NewPgStore(ctx, cfg.PgConn)
		if err != nil {
			return nil, fmt.Errorf("init history store: %w", err)
		}
		a.Store = s
		history = s
	} else {
		log.Info().Msg("PG_CONN not set, answer history disabled")
	}

	a.Solver = service.NewSolver(processors, cfg.Vision, history)
	return a, nil
}

// Close releases the store and flushes traces.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	errs = append(errs, a.Config.Close(ctx))
	return errors.Join(errs...)
}

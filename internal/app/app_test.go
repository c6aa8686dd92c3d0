package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/katakuxiko/trivia/internal/config"
	"github.com/katakuxiko/trivia/internal/service"
)

func TestNew_WithoutHistory(t *testing.T) {
	cfg := &config.Config{
		PerplexityAPIKey: "p",
		OpenAIAPIKey:     "o",
		GeminiAPIKey:     "g",
		Tracer:           sdktrace.NewTracerProvider(),
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	assert.Nil(t, a.Store)
	assert.Equal(t,
		[]string{service.GPT4Name, service.PerplexityName, service.GeminiName},
		a.Solver.Processors(),
	)
}

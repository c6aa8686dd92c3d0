package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestParseHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"api_key": "secret"}, ParseHeaders("api_key=secret"))
	assert.Equal(t,
		map[string]string{"api_key": "a b", "x-team": "qa"},
		ParseHeaders("api_key=a%20b, x-team=qa"),
	)
	assert.Empty(t, ParseHeaders(""))
	assert.Equal(t, map[string]string{"k": "v"}, ParseHeaders("broken,=v2,k=v"))
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvClientHeaders, "api_key=phx")
	t.Setenv(EnvCollectorEndpoint, "")

	opts := OptionsFromEnv("trivia-gpt")

	assert.Equal(t, "trivia-gpt", opts.ProjectName)
	assert.Equal(t, DefaultCollectorEndpoint, opts.Endpoint)
	assert.Equal(t, map[string]string{"api_key": "phx"}, opts.Headers)
}

func TestRegister_ExportsToCollector(t *testing.T) {
	var (
		mu      sync.Mutex
		paths   []string
		apiKeys []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		apiKeys = append(apiKeys, r.Header.Get("api_key"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	tp, err := Register(context.Background(), Options{
		ProjectName: "trivia-gpt",
		Endpoint:    srv.URL,
		Headers:     map[string]string{"api_key": "phx"},
	})
	require.NoError(t, err)
	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := otel.Tracer(TracerName).Start(context.Background(), "question")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, paths)
	assert.Equal(t, "/v1/traces", paths[0])
	assert.Equal(t, "phx", apiKeys[0])
}

func TestRegister_Validation(t *testing.T) {
	_, err := Register(context.Background(), Options{Endpoint: DefaultCollectorEndpoint})
	assert.Error(t, err)

	_, err = Register(context.Background(), Options{ProjectName: "p", Endpoint: "::not a url"})
	assert.Error(t, err)
}

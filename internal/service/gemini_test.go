package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newGeminiServer(t *testing.T, handler http.HandlerFunc) *GeminiProcessor {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := GeminiConfig("test-key", srv.Client())
	cfg.HTTPOptions = genai.HTTPOptions{BaseURL: srv.URL + "/"}

	p, err := NewGeminiProcessor(context.Background(), "", cfg)
	require.NoError(t, err)
	return p
}

func TestGeminiProcessor_SendsPromptAndReturnsAnswer(t *testing.T) {
	const question = "Capital of France?\nA) Paris\nB) Rome"

	p := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/"+DefaultGeminiModel+":generateContent"), r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body := string(raw)
		assert.Contains(t, body, SystemInstruction)
		assert.Contains(t, body, `Capital of France?\nA) Paris\nB) Rome`)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"role":  "model",
						"parts": []map[string]any{{"text": "A) Paris"}},
					},
					"finishReason": "STOP",
				},
			},
		})
	})

	res := p.Process(context.Background(), question)

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, GeminiName, res.Processor)
	assert.Equal(t, "A) Paris", res.Answer)
}

func TestGeminiProcessor_RemoteErrorIsFailure(t *testing.T) {
	p := newGeminiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad","status":"INVALID_ARGUMENT"}}`))
	})

	res := p.Process(context.Background(), "question")

	assert.False(t, res.OK())
	assert.Error(t, res.Err)
	assert.Equal(t, GeminiName, res.Processor)
}

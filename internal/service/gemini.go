package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/katakuxiko/trivia/internal/util"
)

const (
	GeminiName         = "Gemini"
	DefaultGeminiModel = "gemini-1.5-pro"
)

// GeminiProcessor — процессор поверх Gemini API
type GeminiProcessor struct {
	model  string
	client *genai.Client
}

// GeminiConfig возвращает конфиг клиента Gemini API, hc может быть nil
func GeminiConfig(apiKey string, hc *http.Client) *genai.ClientConfig {
	return &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
	}
}

func NewGeminiProcessor(ctx context.Context, model string, cfg *genai.ClientConfig) (*GeminiProcessor, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProcessor{model: model, client: client}, nil
}

func (p *GeminiProcessor) Name() string {
	return GeminiName
}

func (p *GeminiProcessor) Process(ctx context.Context, text string) Result {
	log.Debug().Str("processor", GeminiName).Str("model", p.model).
		Str("question", util.TruncateRunes(text, 80)).Msg("processing question")

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		ResponseMIMEType:  "text/plain",
	})
	if err != nil {
		log.Error().Err(err).Str("processor", GeminiName).Msg("model request failed")
		return Failed(GeminiName, err)
	}
	out := resp.Text()
	if out == "" {
		log.Error().Err(ErrEmptyCompletion).Str("processor", GeminiName).Msg("model request failed")
		return Failed(GeminiName, ErrEmptyCompletion)
	}
	return Answered(GeminiName, out)
}

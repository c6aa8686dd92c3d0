package service

import (
	"context"
	"math"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/katakuxiko/trivia/internal/util"
)

const (
	GPT4Name         = "GPT-4 Turbo"
	DefaultGPT4Model = "gpt-4-turbo-preview"

	PerplexityName         = "Perplexity Sonar"
	DefaultPerplexityModel = "sonar"
	PerplexityBaseURL      = "https://api.perplexity.ai"
)

// ChatProcessor — клиент для OpenAI совместимых chat completion API
type ChatProcessor struct {
	name      string
	model     string
	client    *openai.Client
	plainText bool
}

// NewChatProcessor создаёт процессор с меткой name.
// plainText явно запрашивает текстовый response_format.
func NewChatProcessor(name, model string, cfg openai.ClientConfig, plainText bool) *ChatProcessor {
	return &ChatProcessor{
		name:      name,
		model:     model,
		client:    openai.NewClientWithConfig(cfg),
		plainText: plainText,
	}
}

// NewGPT4Processor — процессор OpenAI GPT-4 Turbo, hc может быть nil
func NewGPT4Processor(apiKey, model string, hc *http.Client) *ChatProcessor {
	cfg := openai.DefaultConfig(apiKey)
	if hc != nil {
		cfg.HTTPClient = hc
	}
	if model == "" {
		model = DefaultGPT4Model
	}
	return NewChatProcessor(GPT4Name, model, cfg, true)
}

// NewPerplexityProcessor — процессор для OpenAI совместимого API Perplexity,
// hc может быть nil
func NewPerplexityProcessor(apiKey, model string, hc *http.Client) *ChatProcessor {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = PerplexityBaseURL
	if hc != nil {
		cfg.HTTPClient = hc
	}
	if model == "" {
		model = DefaultPerplexityModel
	}
	return NewChatProcessor(PerplexityName, model, cfg, false)
}

func (p *ChatProcessor) Name() string {
	return p.name
}

func (p *ChatProcessor) Process(ctx context.Context, text string) Result {
	log.Debug().Str("processor", p.name).Str("model", p.model).
		Str("question", util.TruncateRunes(text, 80)).Msg("processing question")

	req := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: ChatMessages(text),
		// go-openai не отправляет нулевую temperature (omitempty),
		// тогда провайдер взял бы значение по умолчанию.
		Temperature: math.SmallestNonzeroFloat32,
	}
	if p.plainText {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeText,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return p.fail(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return p.fail(ErrEmptyCompletion)
	}
	return Answered(p.name, resp.Choices[0].Message.Content)
}

func (p *ChatProcessor) fail(err error) Result {
	log.Error().Err(err).Str("processor", p.name).Msg("model request failed")
	return Failed(p.name, err)
}

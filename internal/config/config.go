package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/katakuxiko/trivia/internal/ocr"
	"github.com/katakuxiko/trivia/internal/tracing"
)

// Обязательные переменные окружения, проверяются в этом порядке.
const (
	EnvPerplexityAPIKey      = "PERPLEXITY_API_KEY"
	EnvOpenAIAPIKey          = "OPENAI_API_KEY"
	EnvGoogleCredentialsPath = "GOOGLE_CREDENTIALS_PATH"
	EnvGeminiAPIKey          = "GEMINI_API_KEY"
	EnvPhoenixAPIKey         = "PHOENIX_API_KEY"
)

// ProjectName — проект трассировки в Phoenix.
const ProjectName = "trivia-gpt"

// MissingEnvError — обязательная переменная не задана или пуста.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return e.Name + " environment variable is not set or empty"
}

// OCRFactory создаёт OCR клиент по файлу credentials.
type OCRFactory func(ctx context.Context, credentialsPath string) (ocr.Client, error)

// TracerFactory регистрирует глобальный tracer provider.
type TracerFactory func(ctx context.Context, opts tracing.Options) (*sdktrace.TracerProvider, error)

// Config создаётся один раз при старте и дальше только читается.
type Config struct {
	PerplexityAPIKey      string
	OpenAIAPIKey          string
	GoogleCredentialsPath string
	GeminiAPIKey          string
	PhoenixAPIKey         string

	OpenAIModel     string
	PerplexityModel string
	GeminiModel     string
	ServerAddr      string
	PgConn          string

	Vision ocr.Client
	Tracer *sdktrace.TracerProvider
}

type options struct {
	envFiles  []string
	newOCR    OCRFactory
	newTracer TracerFactory
}

type Option func(*options)

// WithEnvFiles задаёт .env файлы, которые читаются до окружения.
// Без файлов .env не загружается.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

func WithOCRFactory(f OCRFactory) Option {
	return func(o *options) { o.newOCR = f }
}

func WithTracerFactory(f TracerFactory) Option {
	return func(o *options) { o.newTracer = f }
}

func defaultOCR(ctx context.Context, credentialsPath string) (ocr.Client, error) {
	return ocr.NewVisionClientFromFile(ctx, credentialsPath)
}

// Load читает окружение, регистрирует трассировку и создаёт OCR клиент.
// Любая отсутствующая обязательная переменная — ошибка всей загрузки.
func Load(ctx context.Context, opts ...Option) (*Config, error) {
	o := options{
		envFiles:  []string{".env"},
		newOCR:    defaultOCR,
		newTracer: tracing.Register,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.envFiles) > 0 {
		if err := godotenv.Load(o.envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := &Config{
		PerplexityAPIKey:      os.Getenv(EnvPerplexityAPIKey),
		OpenAIAPIKey:          os.Getenv(EnvOpenAIAPIKey),
		GoogleCredentialsPath: os.Getenv(EnvGoogleCredentialsPath),
		GeminiAPIKey:          os.Getenv(EnvGeminiAPIKey),
		PhoenixAPIKey:         os.Getenv(EnvPhoenixAPIKey),

		OpenAIModel:     getenv("OPENAI_MODEL", "gpt-4-turbo-preview"),
		PerplexityModel: getenv("PERPLEXITY_MODEL", "sonar"),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-1.5-pro"),
		ServerAddr:      getenv("SERVER_ADDR", ":8080"),
		PgConn:          os.Getenv("PG_CONN"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tp, err := cfg.initTracing(ctx, o.newTracer)
	if err != nil {
		return nil, err
	}
	cfg.Tracer = tp

	vision, err := o.newOCR(ctx, cfg.GoogleCredentialsPath)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init vision client: %w", err)
	}
	cfg.Vision = vision

	log.Debug().Str("project", ProjectName).Msg("configuration loaded")
	return cfg, nil
}

// Close сбрасывает накопленные spans.
func (c *Config) Close(ctx context.Context) error {
	if c.Tracer == nil {
		return nil
	}
	return c.Tracer.Shutdown(ctx)
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{EnvPerplexityAPIKey, c.PerplexityAPIKey},
		{EnvOpenAIAPIKey, c.OpenAIAPIKey},
		{EnvGoogleCredentialsPath, c.GoogleCredentialsPath},
		{EnvGeminiAPIKey, c.GeminiAPIKey},
		{EnvPhoenixAPIKey, c.PhoenixAPIKey},
	}
	for _, r := range required {
		if r.value == "" {
			return &MissingEnvError{Name: r.name}
		}
	}
	return nil
}

func (c *Config) initTracing(ctx context.Context, newTracer TracerFactory) (*sdktrace.TracerProvider, error) {
	if err := os.Setenv(tracing.EnvClientHeaders, "api_key="+c.PhoenixAPIKey); err != nil {
		return nil, fmt.Errorf("set %s: %w", tracing.EnvClientHeaders, err)
	}
	if err := os.Setenv(tracing.EnvCollectorEndpoint, tracing.DefaultCollectorEndpoint); err != nil {
		return nil, fmt.Errorf("set %s: %w", tracing.EnvCollectorEndpoint, err)
	}

	tp, err := newTracer(ctx, tracing.OptionsFromEnv(ProjectName))
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	return tp, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrUnknownBackend is returned by NewClient for an unsupported provider.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrMissingAPIKey is returned when a hosted-model backend has no key.
	ErrMissingAPIKey = errors.New("API key is required")
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("backend unavailable (circuit open)")
)

// Operation names, used in logs and errors.
const (
	OpTranslate         = "translate"
	OpPOS               = "pos"
	OpTranslateKeywords = "translate_keywords"
	OpProcessAudio      = "process_audio"
	OpTranslateMultiple = "translate_multiple"
	OpProcessText       = "process_text"
)

// Client performs one request/response exchange per call.
type Client interface {
	Translate(ctx context.Context, text string) (string, error)
	POS(ctx context.Context, text string) ([]POSTag, error)
	TranslateKeywords(ctx context.Context, text string) ([]Keyword, error)
	ProcessAudio(ctx context.Context, job AudioJob) (TranscriptResult, error)
	// TranslateMultiple translates text1 and text2 in the given direction
	// code ("en-to-te" or "te-to-en").
	TranslateMultiple(ctx context.Context, text1, text2, direction string) (MultiTranslationResult, error)
	ProcessText(ctx context.Context, text string) (TextAnalysis, error)

	// Name returns the backend name
	Name() string
}

// RemoteError is a non-2xx answer from the analysis service.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
}

// Config selects and configures a backend.
type Config struct {
	Provider string // "http", "openai" or "gemini"

	// HTTP service settings
	BaseURL    string
	HTTPClient *http.Client

	// OpenAI settings
	OpenAIKey                string
	OpenAIChatModel          string
	OpenAITranscriptionModel string

	// Gemini settings
	GeminiKey   string
	GeminiModel string

	// Circuit breaker, disabled when BreakerMaxFailures is 0
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	Logger *zap.SugaredLogger
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Provider:                 "http",
		BaseURL:                  "http://127.0.0.1:5000",
		OpenAIChatModel:          "gpt-4o-mini",
		OpenAITranscriptionModel: "whisper-1",
		GeminiModel:              "gemini-2.0-flash",
		BreakerMaxFailures:       3,
		BreakerOpenTimeout:       30 * time.Second,
	}
}

// NewClient creates the configured backend, wrapped in a circuit breaker
// unless BreakerMaxFailures is 0.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var (
		client Client
		err    error
	)
	switch config.Provider {
	case "", "http":
		client = NewHTTPClient(config.BaseURL, config.HTTPClient, logger)
	case "openai":
		client, err = NewOpenAIClient(config.OpenAIKey, config.OpenAIChatModel, config.OpenAITranscriptionModel, logger)
	case "gemini":
		client, err = NewGeminiClient(ctx, config.GeminiKey, config.GeminiModel, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.BreakerMaxFailures > 0 {
		client = NewBreakerClient(client, config.BreakerMaxFailures, config.BreakerOpenTimeout, logger)
	}
	return client, nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

type Config struct {
	Provider     string
	HFToken      string
	HFURL        string
	GeminiAPIKey string
	GeminiModel  string
	Timeout      time.Duration
}

// Namespace identifies the provider and model for cache keys.
func (c Config) Namespace() string {
	switch c.Provider {
	case ProviderGemini:
		model := c.GeminiModel
		if model == "" {
			model = DefaultGeminiModel
		}
		return ProviderGemini + ":" + model
	default:
		url := c.HFURL
		if url == "" {
			url = DefaultHuggingFaceURL
		}
		return ProviderHuggingFace + ":" + url
	}
}

type unconfigured struct{}

func (unconfigured) Complete(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// New builds the configured provider. A provider with missing credentials
// still yields a Completer; every call on it fails with ErrNotConfigured so
// the service can start and report the problem per request.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Completer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	switch cfg.Provider {
	case ProviderHuggingFace, "":
		if cfg.HFToken == "" {
			logger.Warn("HF_ACCESS_TOKEN not set")
		}
		return NewHuggingFaceClient(cfg.HFToken,
			WithHuggingFaceURL(cfg.HFURL),
			WithHTTPClient(&http.Client{Timeout: timeout}),
			WithHuggingFaceLogger(logger),
		), nil

	case ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, timeout, logger)
		if errors.Is(err, ErrNotConfigured) {
			logger.Warn("GEMINI_API_KEY not set")
			return unconfigured{}, nil
		}
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

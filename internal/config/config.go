package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/ta-grader/internal/llm"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite3"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv      string
	StoreDriver string
	DBPath      string
	// RedisAddr empty disables the completion cache.
	RedisAddr   string
	LLMProvider string
	HFToken     string
	HFAPIURL    string
	GeminiKey   string
	GeminiModel string
	LLMTimeout  time.Duration
	LLMCacheTTL time.Duration

	HTTPAddr              string
	CORSOrigins           []string
	GRPCPort              int
	GRPCReflectionEnabled bool
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		StoreDriver:           getEnv("STORE_DRIVER", StoreMemory),
		DBPath:                getEnv("DB_PATH", "./data/grades.db"),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		LLMProvider:           getEnv("LLM_PROVIDER", llm.ProviderHuggingFace),
		HFToken:               getEnv("HF_ACCESS_TOKEN", ""),
		HFAPIURL:              getEnv("HF_API_URL", llm.DefaultHuggingFaceURL),
		GeminiKey:             getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", llm.DefaultGeminiModel),
		LLMTimeout:            getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		LLMCacheTTL:           getEnvDuration("LLM_CACHE_TTL", 24*time.Hour),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:           getEnvList("CORS_ORIGINS", nil),
		GRPCPort:              getEnvInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getEnvBool("GRPC_REFLECTION_ENABLED", false),
	}
}

// LLM returns the model client settings.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Provider:     c.LLMProvider,
		HFToken:      c.HFToken,
		HFURL:        c.HFAPIURL,
		GeminiAPIKey: c.GeminiKey,
		GeminiModel:  c.GeminiModel,
		Timeout:      c.LLMTimeout,
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/ta-grader/internal/llm"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "STORE_DRIVER", "DB_PATH", "REDIS_ADDR", "LLM_PROVIDER", "HF_ACCESS_TOKEN",
		"HF_API_URL", "GEMINI_API_KEY", "GEMINI_MODEL", "LLM_TIMEOUT", "LLM_CACHE_TTL",
		"HTTP_ADDR", "CORS_ORIGINS", "GRPC_PORT", "GRPC_REFLECTION_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, llm.ProviderHuggingFace, cfg.LLMProvider)
	assert.Equal(t, llm.DefaultHuggingFaceURL, cfg.HFAPIURL)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 24*time.Hour, cfg.LLMCacheTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Nil(t, cfg.CORSOrigins)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.False(t, cfg.GRPCReflectionEnabled)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "/tmp/g.db")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("GRPC_PORT", "6000")
	t.Setenv("GRPC_REFLECTION_ENABLED", "true")

	cfg := LoadFromEnv()

	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/g.db", cfg.DBPath)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.True(t, cfg.GRPCReflectionEnabled)

	lc := cfg.LLM()
	assert.Equal(t, llm.ProviderGemini, lc.Provider)
	assert.Equal(t, "key", lc.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, lc.Timeout)
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("GRPC_PORT", "not-a-port")
	t.Setenv("GRPC_REFLECTION_ENABLED", "maybe")
	t.Setenv("LLM_CACHE_TTL", "forever")

	cfg := LoadFromEnv()

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.False(t, cfg.GRPCReflectionEnabled)
	assert.Equal(t, 24*time.Hour, cfg.LLMCacheTTL)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(&Config{AppEnv: env})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}

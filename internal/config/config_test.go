package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.ResultTTL)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingsModel)
	assert.Equal(t, 50, cfg.MinChunkLen)
	assert.Equal(t, 256, cfg.MaxChunkTokens)
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.EmbeddingsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STRICTNESS", "high")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.EmbeddingsEnabled())
	assert.Equal(t, domain.StrictnessHigh, cfg.DefaultOptions().Strictness)
}

func TestDefaultOptions(t *testing.T) {
	cfg := Config{
		DefaultSemanticWeight: 40,
		DefaultSkillsWeight:   40,
		DefaultKeywordsWeight: 20,
		DefaultStrictness:     "MEDIUM",
	}
	opts := cfg.DefaultOptions()
	assert.Equal(t, domain.StrictnessMedium, opts.Strictness)
	assert.Equal(t, domain.Weights{Semantic: 40, Skills: 40, Keywords: 20}, opts.Weights)
}

func TestDefaultOptionsInvalidStrictness(t *testing.T) {
	cfg := Config{DefaultStrictness: "extreme"}
	assert.Equal(t, domain.StrictnessMedium, cfg.DefaultOptions().Strictness)
}

func TestGetEmbedBackoffConfig(t *testing.T) {
	prod := Config{
		AppEnv:                      "prod",
		EmbedBackoffMaxElapsedTime:  60 * time.Second,
		EmbedBackoffInitialInterval: time.Second,
		EmbedBackoffMaxInterval:     10 * time.Second,
		EmbedBackoffMultiplier:      1.5,
	}
	maxElapsed, initial, maxIv, mult := prod.GetEmbedBackoffConfig()
	assert.Equal(t, 60*time.Second, maxElapsed)
	assert.Equal(t, time.Second, initial)
	assert.Equal(t, 10*time.Second, maxIv)
	assert.Equal(t, 1.5, mult)

	test := Config{AppEnv: "test"}
	maxElapsed, initial, maxIv, mult = test.GetEmbedBackoffConfig()
	assert.Equal(t, 2*time.Second, maxElapsed)
	assert.Equal(t, 50*time.Millisecond, initial)
	assert.Equal(t, 500*time.Millisecond, maxIv)
	assert.Equal(t, 2.0, mult)
}

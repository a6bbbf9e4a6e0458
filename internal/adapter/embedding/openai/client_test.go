package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-match/internal/config"
	"github.com/fairyhunter13/resume-match/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:          "test",
		OpenAIAPIKey:    "test-key",
		OpenAIBaseURL:   baseURL,
		EmbeddingsModel: "text-embedding-3-small",
	}
}

func embeddingsResponse(n, dims int) map[string]any {
	data := make([]map[string]any, n)
	for i := range data {
		vec := make([]float64, dims)
		vec[i%dims] = 1
		data[i] = map[string]any{"embedding": vec}
	}
	return map[string]any{"data": data}
}

func TestEmbedSuccess(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)

		_ = json.NewEncoder(w).Encode(embeddingsResponse(len(req.Input), 4))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	got, err := c.Embed(context.Background(), []string{"first chunk", "second chunk"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0], 4)
}

func TestEmbedMissingCredentials(t *testing.T) {
	t.Parallel()
	c := New(config.Config{AppEnv: "test"})
	_, err := c.Embed(context.Background(), []string{"x"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestEmbedEmptyInput(t *testing.T) {
	t.Parallel()
	c := New(testConfig("http://unreachable.invalid"))
	got, err := c.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbed4xxIsPermanent(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.Embed(context.Background(), []string{"x"})
	require.ErrorIs(t, err, domain.ErrEmbedderDown)
	assert.Equal(t, int64(1), hits.Load(), "4xx must not be retried")
}

func TestEmbedRetriesOn5xx(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(embeddingsResponse(1, 4))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	got, err := c.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.GreaterOrEqual(t, hits.Load(), int64(2))
}

func TestEmbedCountMismatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(embeddingsResponse(1, 4))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.Embed(context.Background(), []string{"a", "b"})
	require.ErrorIs(t, err, domain.ErrInternal)
}

// Package openai implements the embedding client against an
// OpenAI-compatible /embeddings endpoint.
package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/resume-match/internal/adapter/observability"
	"github.com/fairyhunter13/resume-match/internal/config"
	"github.com/fairyhunter13/resume-match/internal/domain"
)

// Client implements domain.EmbeddingClient over the OpenAI embeddings API.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a client with a traced transport and a sensible timeout.
func New(cfg config.Config) *Client {
	timeout := 30 * time.Second
	if cfg.IsDev() {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// readSnippet reads up to n bytes from r for error logs.
func readSnippet(r io.Reader, n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	buf, _ := io.ReadAll(io.LimitReader(r, int64(n)))
	return string(buf)
}

func (c *Client) getBackoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetEmbedBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// Embed returns one vector per input text, in input order. Rate limits and
// 5xx responses are retried with exponential backoff; 4xx responses are
// permanent failures.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if c.cfg.OpenAIAPIKey == "" || c.cfg.EmbeddingsModel == "" {
		// Do not log secrets; only indicate presence
		slog.Error("embedding API key or model missing",
			slog.Bool("has_api_key", c.cfg.OpenAIAPIKey != ""),
			slog.String("model", c.cfg.EmbeddingsModel))
		return nil, fmt.Errorf("%w: OPENAI_API_KEY or EMBEDDINGS_MODEL missing", domain.ErrInvalidArgument)
	}
	if len(texts) == 0 {
		return nil, nil
	}
	endpoint := c.cfg.OpenAIBaseURL + "/embeddings"
	body, _ := json.Marshal(map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	})
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	op := func() error {
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		r.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.EmbeddingRequestDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			observability.EmbeddingRequestsTotal.WithLabelValues("transport_error").Inc()
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			observability.EmbeddingRequestsTotal.WithLabelValues("rate_limited").Inc()
			slog.Warn("embedding provider rate limited",
				slog.Int("status", resp.StatusCode),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("%w: embed status 429", domain.ErrRateLimited)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			// Client error: non-retryable
			observability.EmbeddingRequestsTotal.WithLabelValues("client_error").Inc()
			slog.Warn("embedding provider 4xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.EmbeddingsModel),
				slog.String("endpoint", endpoint),
				slog.String("body", readSnippet(resp.Body, 512)))
			return backoff.Permanent(fmt.Errorf("embed status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			// 5xx and others: retryable
			observability.EmbeddingRequestsTotal.WithLabelValues("server_error").Inc()
			slog.Error("embedding provider non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.EmbeddingsModel),
				slog.String("endpoint", endpoint),
				slog.String("body", readSnippet(resp.Body, 512)))
			return fmt.Errorf("embed status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			observability.EmbeddingRequestsTotal.WithLabelValues("decode_error").Inc()
			slog.Error("embedding provider decode error",
				slog.String("endpoint", endpoint), slog.Any("error", err))
			return err
		}
		observability.EmbeddingRequestsTotal.WithLabelValues("ok").Inc()
		return nil
	}

	bo := backoff.WithContext(c.getBackoffConfig(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		slog.Error("embedding API failed after retries", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedderDown, err)
	}

	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", domain.ErrInternal, len(out.Data), len(texts))
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		if len(out.Data[i].Embedding) == 0 {
			return nil, errors.New("empty embedding vector from provider")
		}
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

// Package embedding provides wrappers around embedding clients.
package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/fairyhunter13/resume-match/internal/adapter/observability"
	"github.com/fairyhunter13/resume-match/internal/domain"
)

// cacheClient wraps an EmbeddingClient and caches vectors by text hash.
// It is safe for concurrent use. Eviction is FIFO for simplicity; resumes
// and job descriptions repeat often enough that recency barely matters.
type cacheClient struct {
	base     domain.EmbeddingClient
	capacity int
	mu       sync.RWMutex
	m        map[string][]float32
	ord      []string
}

// NewCache wraps base with an embedding cache of capacity entries.
// If capacity <= 0, base is returned unmodified.
func NewCache(base domain.EmbeddingClient, capacity int) domain.EmbeddingClient {
	if capacity <= 0 || base == nil {
		return base
	}
	return &cacheClient{base: base, capacity: capacity, m: make(map[string][]float32), ord: make([]string, 0, capacity)}
}

func (c *cacheClient) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	res := make([][]float32, len(texts))
	missIdx := make([]int, 0)
	missTexts := make([]string, 0)
	for i, t := range texts {
		k := keyFor(t)
		c.mu.RLock()
		v, ok := c.m[k]
		c.mu.RUnlock()
		if ok {
			observability.EmbeddingCacheHitsTotal.Inc()
			res[i] = v
			continue
		}
		observability.EmbeddingCacheMissesTotal.Inc()
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missIdx) > 0 {
		vecs, err := c.base.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, idx := range missIdx {
			res[idx] = vecs[j]
			c.put(missTexts[j], vecs[j])
		}
	}
	return res, nil
}

func (c *cacheClient) put(text string, vec []float32) {
	k := keyFor(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[k]; exists {
		c.m[k] = vec
		return
	}
	if len(c.ord) >= c.capacity {
		old := c.ord[0]
		c.ord = c.ord[1:]
		delete(c.m, old)
	}
	c.m[k] = vec
	c.ord = append(c.ord, k)
}

func keyFor(text string) string {
	s := strings.TrimSpace(text)
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

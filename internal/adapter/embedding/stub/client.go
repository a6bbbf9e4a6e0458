// Package stub provides a fast, deterministic embedding client for local
// development when no API key is configured. Identical texts always get
// identical vectors, so coverage scoring behaves sensibly offline.
package stub

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

const dims = 32

// Client implements domain.EmbeddingClient without any network calls.
type Client struct{}

func New() *Client { return &Client{} }

// Embed hashes each text into a unit vector of fixed dimension.
func (c *Client) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	res := make([][]float32, len(texts))
	for i, t := range texts {
		res[i] = hashVector(t)
	}
	return res, nil
}

func hashVector(text string) []float32 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, dims)
	var mag float64
	for i := range vec {
		// Stretch the 32 digest bytes over the vector by re-hashing per lane.
		lane := sha256.Sum256(append(sum[:], byte(i)))
		bits := binary.BigEndian.Uint32(lane[:4])
		vec[i] = float32(bits%2048)/1024 - 1
		mag += float64(vec[i]) * float64(vec[i])
	}
	if mag == 0 {
		vec[0] = 1
		return vec
	}
	norm := float32(math.Sqrt(mag))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

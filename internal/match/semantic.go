package match

import (
	"fmt"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

// DefaultEmbedBatchSize bounds how many chunks are sent to the embedding
// backend in one request.
const DefaultEmbedBatchSize = 16

// SemanticScorer computes embedding-based coverage of a job description by
// a resume. It holds no per-analysis state; the embedding client is shared.
type SemanticScorer struct {
	embedder  domain.EmbeddingClient
	minLen    int
	maxTokens int
	batchSize int
}

// NewSemanticScorer builds a scorer over the given embedding client.
// Zero or negative tuning values select the package defaults.
func NewSemanticScorer(embedder domain.EmbeddingClient, minLen, maxTokens, batchSize int) *SemanticScorer {
	if batchSize <= 0 {
		batchSize = DefaultEmbedBatchSize
	}
	return &SemanticScorer{embedder: embedder, minLen: minLen, maxTokens: maxTokens, batchSize: batchSize}
}

// Coverage scores how well the resume covers the job description on a
// 0..100 scale. Both texts are chunked; each chunk is embedded exactly once
// (in bounded batches, never per pair). For every JD chunk the best cosine
// against all resume chunks is taken, negatives are floored to 0, and the
// maxima are averaged. The measure is asymmetric: extra resume content
// never lowers it. Zero chunks on either side scores 0.
func (s *SemanticScorer) Coverage(ctx domain.Context, resumeText, jdText string) (float64, error) {
	jdChunks := SmartChunk(jdText, s.minLen, s.maxTokens)
	resumeChunks := SmartChunk(resumeText, s.minLen, s.maxTokens)
	if len(jdChunks) == 0 || len(resumeChunks) == 0 {
		return 0, nil
	}

	jdVecs, err := s.embedBatched(ctx, jdChunks)
	if err != nil {
		return 0, fmt.Errorf("op=match.Coverage: embed jd: %w", err)
	}
	resumeVecs, err := s.embedBatched(ctx, resumeChunks)
	if err != nil {
		return 0, fmt.Errorf("op=match.Coverage: embed resume: %w", err)
	}

	var total float64
	for _, jv := range jdVecs {
		best := -1.0
		for _, rv := range resumeVecs {
			if sim := cosine32(jv, rv); sim > best {
				best = sim
			}
		}
		if best > 0 {
			total += best
		}
	}
	return total / float64(len(jdVecs)) * 100, nil
}

func (s *SemanticScorer) embedBatched(ctx domain.Context, chunks []string) ([][]float32, error) {
	vecs := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch, err := s.embedder.Embed(ctx, chunks[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: embedding count %d for %d inputs", domain.ErrInternal, len(batch), end-start)
		}
		vecs = append(vecs, batch...)
	}
	return vecs, nil
}

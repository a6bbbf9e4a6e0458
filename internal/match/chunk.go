package match

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultMinChunkLen filters out short headers and bullet fragments such as
// "Skills" that carry no semantic content on their own.
const DefaultMinChunkLen = 50

// DefaultMaxChunkTokens caps a single chunk before it is sent to the
// embedding backend.
const DefaultMaxChunkTokens = 256

var chunkSplitRe = regexp.MustCompile(`(?:\r\n|\r|\n|\. )+`)

// encoding is the process-wide cl100k_base encoding, loaded lazily exactly
// once. Loading parses the BPE vocabulary, which is the expensive shared
// resource of this package; everything after is read-only and safe for
// concurrent use.
var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

func getEncoding() (*tiktoken.Tiktoken, error) {
	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding("cl100k_base")
	})
	return encoding, encodingErr
}

// SmartChunk splits text into sentence-like units on newlines and
// period+space boundaries, trims each unit and keeps those longer than
// minLen runes. Chunks exceeding maxTokens (cl100k_base) are truncated to
// the token budget. Zero or negative arguments select the defaults.
func SmartChunk(text string, minLen, maxTokens int) []string {
	if minLen <= 0 {
		minLen = DefaultMinChunkLen
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxChunkTokens
	}

	parts := chunkSplitRe.Split(text, -1)
	chunks := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len([]rune(p)) <= minLen {
			continue
		}
		chunks = append(chunks, truncateTokens(p, maxTokens))
	}
	return chunks
}

// truncateTokens caps chunk at budget tokens. If the encoding cannot be
// loaded the chunk is returned unchanged; the embedding backend enforces
// its own context limit anyway.
func truncateTokens(chunk string, budget int) string {
	enc, err := getEncoding()
	if err != nil {
		slog.Warn("token encoding unavailable, skipping chunk truncation", slog.Any("error", err))
		return chunk
	}
	ids := enc.Encode(chunk, nil, nil)
	if len(ids) <= budget {
		return chunk
	}
	return enc.Decode(ids[:budget])
}

package match

import (
	"math"
	"regexp"
)

var tokenRe = regexp.MustCompile(`[a-z0-9]+(?:['._-][a-z0-9]+)*`)

// tokenize splits lowercase text into word tokens. Punctuation separates
// tokens except for intra-word apostrophes, dots, underscores and hyphens
// so terms like "node.js" survive tokenization.
func tokenize(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

// contentTokens tokenizes text and drops stopwords.
func contentTokens(text string) []string {
	tokens := tokenize(text)
	out := tokens[:0]
	for _, t := range tokens {
		if !isStopword(t) {
			out = append(out, t)
		}
	}
	return out
}

// LexicalSimilarity computes term-frequency cosine similarity between two
// normalized texts on a 0..100 scale. Stopwords are removed before the
// vectors are built over the union vocabulary. The measure is symmetric;
// empty or zero-magnitude inputs score 0.
//
// This is also the fallback scorer when the embedding backend is
// unavailable (see Engine.Analyze).
func LexicalSimilarity(text1, text2 string) float64 {
	tokens1 := contentTokens(text1)
	tokens2 := contentTokens(text2)

	vocab := make(map[string]int)
	for _, t := range tokens1 {
		if _, ok := vocab[t]; !ok {
			vocab[t] = len(vocab)
		}
	}
	for _, t := range tokens2 {
		if _, ok := vocab[t]; !ok {
			vocab[t] = len(vocab)
		}
	}
	if len(vocab) == 0 {
		return 0
	}

	vec1 := make([]float64, len(vocab))
	vec2 := make([]float64, len(vocab))
	for _, t := range tokens1 {
		vec1[vocab[t]]++
	}
	for _, t := range tokens2 {
		vec2[vocab[t]]++
	}

	return cosine64(vec1, vec2) * 100
}

// KeywordCoverage measures the fraction of the job description's unique
// non-stopword tokens that also occur in the resume, on a 0..100 scale.
// It is asymmetric by design. An empty job-description vocabulary scores
// 100: the absence of requirements does not penalize the candidate.
func KeywordCoverage(resumeText, jdText string) float64 {
	jdWords := make(map[string]struct{})
	for _, t := range contentTokens(jdText) {
		jdWords[t] = struct{}{}
	}
	if len(jdWords) == 0 {
		return 100
	}

	resumeWords := make(map[string]struct{})
	for _, t := range contentTokens(resumeText) {
		resumeWords[t] = struct{}{}
	}

	matched := 0
	for w := range jdWords {
		if _, ok := resumeWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(jdWords)) * 100
}

func cosine64(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// cosine32 is the float32 variant used for embedding vectors.
// Mismatched lengths score 0 rather than erroring.
func cosine32(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

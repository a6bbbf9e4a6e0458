// Package match implements the resume / job-description matching engine:
// text normalization, taxonomy skill extraction, lexical and semantic
// similarity scoring, gap analysis, weighted score fusion and narrative
// generation. The engine is stateless per analysis; the only shared state
// lives behind the injected embedding client and the lazily loaded token
// encoding.
package match

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	pageBreakRe  = regexp.MustCompile(`----------------Page \(\d+\) Break----------------`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeText canonicalizes extracted document text before any scoring.
// It lowercases, percent-decodes URL-escaped fragments left behind by PDF
// extractors (best effort, undecodable input is kept as-is), strips page
// break artifacts, collapses runs of whitespace to a single space and trims.
// Empty input yields empty output.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	normalized := strings.ToLower(text)
	// PathUnescape rather than QueryUnescape: '+' must stay literal ("c++").
	if decoded, err := url.PathUnescape(normalized); err == nil {
		normalized = decoded
	}
	normalized = pageBreakRe.ReplaceAllString(normalized, " ")
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// WordCount returns the number of whitespace-separated words in text.
// Used for parsing metadata and the short-resume risk flag.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

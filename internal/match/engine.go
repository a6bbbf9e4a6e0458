package match

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

// Counter is the minimal metrics hook the engine needs; the Prometheus
// counter for semantic fallbacks satisfies it.
type Counter interface{ Inc() }

type noopCounter struct{}

func (noopCounter) Inc() {}

// Engine runs a full analysis: normalization, skill extraction, semantic
// and lexical scoring, gap analysis, fusion and narrative generation.
// It is safe for concurrent use; every Analyze call is independent.
type Engine struct {
	taxonomy       *Taxonomy
	semantic       *SemanticScorer
	defaults       domain.AnalysisOptions
	fallbackMetric Counter
}

// NewEngine assembles an engine. defaults supplies the weights and
// strictness used when a caller passes zero-valued options; a zero
// defaults value selects 40/40/20 and medium strictness.
func NewEngine(taxonomy *Taxonomy, semantic *SemanticScorer, defaults domain.AnalysisOptions, fallbackMetric Counter) *Engine {
	if defaults.Weights.IsZero() {
		defaults.Weights = domain.DefaultWeights
	}
	if defaults.Strictness == "" {
		defaults.Strictness = domain.StrictnessMedium
	}
	if fallbackMetric == nil {
		fallbackMetric = noopCounter{}
	}
	return &Engine{taxonomy: taxonomy, semantic: semantic, defaults: defaults, fallbackMetric: fallbackMetric}
}

// Analyze scores resumeText against jdText and returns an immutable
// AnalysisResult. The result is always produced: an embedding failure or
// timeout degrades the semantic signal to lexical cosine similarity and is
// reported via log and metric, never as an error to the caller.
func (e *Engine) Analyze(ctx domain.Context, resumeText, jdText, resumeID, originalFileName string, opts domain.AnalysisOptions) domain.AnalysisResult {
	resumeNorm := NormalizeText(resumeText)
	jdNorm := NormalizeText(jdText)
	opts = e.applyDefaults(opts)

	resumeSkills := e.taxonomy.Extract(resumeNorm, opts.CustomSkills)
	jdSkills := e.taxonomy.Extract(jdNorm, opts.CustomSkills)

	semanticScore, err := e.semantic.Coverage(ctx, resumeNorm, jdNorm)
	if err != nil {
		semanticScore = LexicalSimilarity(resumeNorm, jdNorm)
		e.fallbackMetric.Inc()
		slog.WarnContext(ctx, "semantic scoring failed, falling back to lexical similarity",
			slog.String("resume_id", resumeID),
			slog.Float64("lexical_score", semanticScore),
			slog.Any("error", err))
	}

	gaps := AnalyzeGaps(resumeSkills, jdSkills)
	keywordCoverage := KeywordCoverage(resumeNorm, jdNorm)

	matchScore := FuseScores(semanticScore, gaps.SkillMatchScore, keywordCoverage, opts.Weights)
	probability := ShortlistProbability(matchScore, len(resumeSkills), len(gaps.Missing))
	wordCount := WordCount(resumeNorm)

	return domain.AnalysisResult{
		ID:                   NewAnalysisID(),
		ResumeID:             resumeID,
		OriginalFileName:     originalFileName,
		Timestamp:            time.Now().UTC(),
		MatchScore:           matchScore,
		ShortlistProbability: probability,
		SkillMatchScore:      gaps.SkillMatchScore,
		PresentSkills:        gaps.Present,
		MissingSkills:        gaps.Missing,
		ExtraSkills:          gaps.Extra,
		Strengths:            Strengths(gaps.Present, gaps.Extra, matchScore),
		RiskFlags:            RiskFlags(gaps.Missing, wordCount),
		Summary:              Summary(matchScore, len(gaps.Missing)),
		Recommendation:       Recommend(matchScore, opts.Strictness),
		ParsingMetadata: domain.ParsingMetadata{
			WordCount:      wordCount,
			DetectedFormat: "extracted-text",
		},
	}
}

func (e *Engine) applyDefaults(opts domain.AnalysisOptions) domain.AnalysisOptions {
	if opts.Weights.IsZero() {
		opts.Weights = e.defaults.Weights
	}
	if opts.Strictness == "" {
		opts.Strictness = e.defaults.Strictness
	}
	return opts
}

// NewAnalysisID mints an AN-prefixed ULID. ULIDs sort by creation time,
// which keeps recent-history queries cheap.
func NewAnalysisID() string {
	return fmt.Sprintf("AN-%s", ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader))
}

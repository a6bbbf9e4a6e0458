// Package domain holds the core entities and ports of the resume matching engine.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrEmbedderDown    = errors.New("embedding backend unavailable")
	ErrInternal        = errors.New("internal error")
)

// SkillCategory is the closed set of taxonomy categories.
type SkillCategory string

const (
	CategoryCoreTechnical   SkillCategory = "Core Technical"
	CategoryToolsFrameworks SkillCategory = "Tools & Frameworks"
	CategorySoftSkills      SkillCategory = "Soft Skills"
	CategoryOther           SkillCategory = "Other"
)

// Valid reports whether c is one of the known categories.
func (c SkillCategory) Valid() bool {
	switch c {
	case CategoryCoreTechnical, CategoryToolsFrameworks, CategorySoftSkills, CategoryOther:
		return true
	}
	return false
}

// Relevance grades how important a missing skill is for the role.
// Gap analysis currently only ever assigns RelevanceHigh on a direct mismatch;
// the Medium/Low grades exist for forward compatibility.
type Relevance string

const (
	RelevanceHigh   Relevance = "High"
	RelevanceMedium Relevance = "Medium"
	RelevanceLow    Relevance = "Low"
)

// Skill is a taxonomy term found in a text. Identity is the lowercased name;
// the category comes from the taxonomy table or the custom-skill configuration.
type Skill struct {
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
}

// MissingSkill is a required skill absent from the resume.
type MissingSkill struct {
	Skill
	Relevance Relevance `json:"relevance"`
}

// Strictness controls how high matchScore must be to earn a
// Shortlist or Review recommendation.
type Strictness string

const (
	StrictnessLow    Strictness = "low"
	StrictnessMedium Strictness = "medium"
	StrictnessHigh   Strictness = "high"
)

// Recommendation is the final hiring-funnel verdict.
type Recommendation string

const (
	RecommendShortlist Recommendation = "Shortlist"
	RecommendReview    Recommendation = "Review"
	RecommendReject    Recommendation = "Reject"
)

// Weights are percentage contributions of the three signals. They are
// expected to sum to ~100 but this is not enforced; fusion divides by a
// fixed 100 regardless (see match.FuseScores).
type Weights struct {
	Semantic float64 `json:"semantic"`
	Skills   float64 `json:"skills"`
	Keywords float64 `json:"keywords"`
}

// DefaultWeights is the 40/40/20 split of the default scoring profile.
var DefaultWeights = Weights{Semantic: 40, Skills: 40, Keywords: 20}

// IsZero reports whether no weight has been set at all.
func (w Weights) IsZero() bool { return w.Semantic == 0 && w.Skills == 0 && w.Keywords == 0 }

// AnalysisOptions are caller-supplied knobs; zero values mean defaults
// (40/40/20 weights, medium strictness, no custom skills).
type AnalysisOptions struct {
	Weights      Weights    `json:"weights"`
	Strictness   Strictness `json:"strictness"`
	CustomSkills []Skill    `json:"custom_skills"`
}

// ParsingMetadata carries transparency data about the analyzed resume text.
type ParsingMetadata struct {
	WordCount      int    `json:"word_count"`
	DetectedFormat string `json:"detected_format"`
}

// AnalysisResult is the engine's sole output. It is created in one atomic
// computation from the two input texts plus options and never mutated after.
type AnalysisResult struct {
	ID                   string          `json:"id"`
	ResumeID             string          `json:"resume_id"`
	OriginalFileName     string          `json:"original_file_name"`
	Timestamp            time.Time       `json:"timestamp"`
	MatchScore           int             `json:"match_score"`
	ShortlistProbability float64         `json:"shortlist_probability"`
	SkillMatchScore      float64         `json:"skill_match_score"`
	PresentSkills        []Skill         `json:"present_skills"`
	MissingSkills        []MissingSkill  `json:"missing_skills"`
	ExtraSkills          []Skill         `json:"extra_skills"`
	Strengths            []string        `json:"strengths"`
	RiskFlags            []string        `json:"risk_flags"`
	Summary              string          `json:"summary"`
	Recommendation       Recommendation  `json:"recommendation"`
	ParsingMetadata      ParsingMetadata `json:"parsing_metadata"`
}

// Resume is a stored upload: extracted text plus file metadata.
type Resume struct {
	ID        string
	Text      string
	Filename  string
	MIME      string
	Size      int64
	CreatedAt time.Time
}

// Repositories (ports)

type ResumeRepository interface {
	Create(ctx Context, r Resume) (string, error)
	Get(ctx Context, id string) (Resume, error)
}

type AnalysisRepository interface {
	Insert(ctx Context, res AnalysisResult) error
	GetByID(ctx Context, id string) (AnalysisResult, error)
	ListRecent(ctx Context, limit int) ([]AnalysisResult, error)
}

// ResultCache is an optional read-through cache for analysis results.
type ResultCache interface {
	Put(ctx Context, res AnalysisResult) error
	Get(ctx Context, id string) (AnalysisResult, bool, error)
}

// EmbeddingClient (port)
// Embed returns one fixed-dimension vector per input text. Vectors are
// mean-pooled and L2-normalized by the backend so cosine reduces to a dot
// product. Implementations may batch internally; order must match input order.
type EmbeddingClient interface {
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// TextExtractor (port)
// ExtractPath extracts plain text from a document at path with the provided
// original filename. Implementations may call external services (e.g., Tika).
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// Context is an alias to context.Context so the domain package reads cleanly
// in port signatures; adapters and usecases pass context.Context through.
type Context = context.Context

// Package usecase contains the application services that sit between the
// HTTP adapters and the matching engine.
package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/resume-match/internal/adapter/observability"
	"github.com/fairyhunter13/resume-match/internal/domain"
	"github.com/fairyhunter13/resume-match/internal/match"
)

// minTextLen is the minimum accepted length for resume and job description
// text.
const minTextLen = 10

// AnalyzeRequest carries one analysis invocation. Either ResumeID (a stored
// upload) or ResumeText (inline) must be provided; inline text wins when
// both are set.
type AnalyzeRequest struct {
	ResumeID         string
	ResumeText       string
	JobDescription   string
	OriginalFileName string
	Options          domain.AnalysisOptions
}

// AnalyzeService runs analyses and persists their results.
type AnalyzeService struct {
	Engine   *match.Engine
	Resumes  domain.ResumeRepository
	Analyses domain.AnalysisRepository
	Cache    domain.ResultCache
}

// NewAnalyzeService constructs an AnalyzeService. cache may be nil.
func NewAnalyzeService(engine *match.Engine, resumes domain.ResumeRepository, analyses domain.AnalysisRepository, cache domain.ResultCache) AnalyzeService {
	return AnalyzeService{Engine: engine, Resumes: resumes, Analyses: analyses, Cache: cache}
}

// Analyze validates the request, resolves the resume text, runs the engine
// and persists the result. Persistence and cache failures are logged and
// swallowed; once the engine has produced a result the caller always gets
// it.
func (s AnalyzeService) Analyze(ctx domain.Context, req AnalyzeRequest) (domain.AnalysisResult, error) {
	resumeText := strings.TrimSpace(req.ResumeText)
	resumeID := req.ResumeID
	fileName := req.OriginalFileName

	if resumeText == "" {
		if resumeID == "" {
			observability.AnalysesFailedTotal.Inc()
			return domain.AnalysisResult{}, fmt.Errorf("%w: resume_id or resume_text required", domain.ErrInvalidArgument)
		}
		resume, err := s.Resumes.Get(ctx, resumeID)
		if err != nil {
			observability.AnalysesFailedTotal.Inc()
			return domain.AnalysisResult{}, err
		}
		resumeText = resume.Text
		if fileName == "" {
			fileName = resume.Filename
		}
	}

	jdText := strings.TrimSpace(req.JobDescription)
	if len(resumeText) < minTextLen {
		observability.AnalysesFailedTotal.Inc()
		return domain.AnalysisResult{}, fmt.Errorf("%w: resume text must be at least %d characters", domain.ErrInvalidArgument, minTextLen)
	}
	if len(jdText) < minTextLen {
		observability.AnalysesFailedTotal.Inc()
		return domain.AnalysisResult{}, fmt.Errorf("%w: job description must be at least %d characters", domain.ErrInvalidArgument, minTextLen)
	}

	res := s.Engine.Analyze(ctx, resumeText, jdText, resumeID, fileName, req.Options)
	observability.ObserveAnalysis(res.MatchScore, res.ShortlistProbability)

	// A storage failure must not block returning the result.
	if err := s.Analyses.Insert(ctx, res); err != nil {
		slog.ErrorContext(ctx, "failed to persist analysis result",
			slog.String("analysis_id", res.ID), slog.Any("error", err))
	} else if s.Cache != nil {
		if err := s.Cache.Put(ctx, res); err != nil {
			slog.WarnContext(ctx, "failed to warm result cache",
				slog.String("analysis_id", res.ID), slog.Any("error", err))
		}
	}

	slog.InfoContext(ctx, "analysis completed",
		slog.String("analysis_id", res.ID),
		slog.String("resume_id", resumeID),
		slog.Int("match_score", res.MatchScore),
		slog.String("recommendation", string(res.Recommendation)))
	return res, nil
}

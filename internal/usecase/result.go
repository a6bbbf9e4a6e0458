package usecase

import (
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

// defaultHistoryLimit bounds GET /v1/analyses when no limit is given.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ResultService provides read access to stored analysis results, with an
// optional Redis read-through cache in front of Postgres.
type ResultService struct {
	Analyses domain.AnalysisRepository
	Cache    domain.ResultCache
}

// NewResultService constructs a ResultService. cache may be nil.
func NewResultService(analyses domain.AnalysisRepository, cache domain.ResultCache) ResultService {
	return ResultService{Analyses: analyses, Cache: cache}
}

// Get returns a result by id, trying the cache first. Cache errors are
// logged and treated as misses.
func (s ResultService) Get(ctx domain.Context, id string) (domain.AnalysisResult, error) {
	if id == "" {
		return domain.AnalysisResult{}, fmt.Errorf("%w: id required", domain.ErrInvalidArgument)
	}
	if s.Cache != nil {
		res, ok, err := s.Cache.Get(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "result cache read failed", slog.String("analysis_id", id), slog.Any("error", err))
		} else if ok {
			return res, nil
		}
	}
	res, err := s.Analyses.GetByID(ctx, id)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if s.Cache != nil {
		if err := s.Cache.Put(ctx, res); err != nil {
			slog.WarnContext(ctx, "result cache backfill failed", slog.String("analysis_id", id), slog.Any("error", err))
		}
	}
	return res, nil
}

// Recent returns up to limit results, newest first. Out-of-range limits
// are clamped rather than rejected.
func (s ResultService) Recent(ctx domain.Context, limit int) ([]domain.AnalysisResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.Analyses.ListRecent(ctx, limit)
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

func sampleResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		ID:                   "AN-01J",
		ResumeID:             "r-1",
		OriginalFileName:     "cv.pdf",
		Timestamp:            time.Now().UTC(),
		MatchScore:           72,
		ShortlistProbability: 72,
		SkillMatchScore:      50,
		PresentSkills:        []domain.Skill{{Name: "python", Category: domain.CategoryCoreTechnical}},
		MissingSkills:        []domain.MissingSkill{{Skill: domain.Skill{Name: "docker", Category: domain.CategoryToolsFrameworks}, Relevance: domain.RelevanceHigh}},
		ExtraSkills:          []domain.Skill{{Name: "aws", Category: domain.CategoryToolsFrameworks}},
		Strengths:            []string{"Strong core stack: python."},
		RiskFlags:            []string{},
		Summary:              "Good potential match. The candidate has most core skills but lacks some distinct requirements.",
		Recommendation:       domain.RecommendReview,
		ParsingMetadata:      domain.ParsingMetadata{WordCount: 420, DetectedFormat: "extracted-text"},
	}
}

// rowFromResult mirrors what the analyses table would hand back for res.
func rowFromResult(t *testing.T, res domain.AnalysisResult) []any {
	t.Helper()
	pool := &fakePool{}
	repo := NewAnalysisRepo(pool)
	require.NoError(t, repo.Insert(context.Background(), res))
	require.Len(t, pool.execArgs, 1)
	return pool.execArgs[0]
}

func TestAnalysisRepoInsert(t *testing.T) {
	t.Parallel()
	pool := &fakePool{}
	repo := NewAnalysisRepo(pool)

	require.NoError(t, repo.Insert(context.Background(), sampleResult()))
	require.Len(t, pool.execSQL, 1)
	assert.Contains(t, pool.execSQL[0], "INSERT INTO analyses")
	assert.Len(t, pool.execArgs[0], 16)
}

func TestAnalysisRepoGetByIDRoundTrip(t *testing.T) {
	t.Parallel()
	want := sampleResult()
	pool := &fakePool{rowVals: rowFromResult(t, want)}
	repo := NewAnalysisRepo(pool)

	got, err := repo.GetByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAnalysisRepoGetByIDNotFound(t *testing.T) {
	t.Parallel()
	pool := &fakePool{rowErr: pgx.ErrNoRows}
	repo := NewAnalysisRepo(pool)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisRepoListRecent(t *testing.T) {
	t.Parallel()
	first := sampleResult()
	second := sampleResult()
	second.ID = "AN-02J"
	pool := &fakePool{rowsVals: [][]any{rowFromResult(t, first), rowFromResult(t, second)}}
	repo := NewAnalysisRepo(pool)

	got, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestAnalysisRepoListRecentEmpty(t *testing.T) {
	t.Parallel()
	pool := &fakePool{}
	repo := NewAnalysisRepo(pool)

	got, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

// AnalysisRepo persists and loads analysis results. Skill lists and
// narrative arrays are stored as JSONB so the scoring shape can grow
// without schema churn.
type AnalysisRepo struct{ Pool PgxPool }

// NewAnalysisRepo constructs an AnalysisRepo with the given pool.
func NewAnalysisRepo(p PgxPool) *AnalysisRepo { return &AnalysisRepo{Pool: p} }

// Insert stores one result. Results are immutable; a duplicate id is a
// conflict, not an update.
func (r *AnalysisRepo) Insert(ctx domain.Context, res domain.AnalysisResult) error {
	tracer := otel.Tracer("repo.analyses")
	ctx, span := tracer.Start(ctx, "analyses.Insert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "analyses"),
	)
	present, err := json.Marshal(res.PresentSkills)
	if err != nil {
		return fmt.Errorf("op=analysis.insert: %w", err)
	}
	missing, err := json.Marshal(res.MissingSkills)
	if err != nil {
		return fmt.Errorf("op=analysis.insert: %w", err)
	}
	extra, err := json.Marshal(res.ExtraSkills)
	if err != nil {
		return fmt.Errorf("op=analysis.insert: %w", err)
	}
	strengths, err := json.Marshal(res.Strengths)
	if err != nil {
		return fmt.Errorf("op=analysis.insert: %w", err)
	}
	riskFlags, err := json.Marshal(res.RiskFlags)
	if err != nil {
		return fmt.Errorf("op=analysis.insert: %w", err)
	}
	q := `INSERT INTO analyses (id, resume_id, original_file_name, ts, match_score, shortlist_probability,
		skill_match_score, present_skills, missing_skills, extra_skills, strengths, risk_flags,
		summary, recommendation, word_count, detected_format)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err = r.Pool.Exec(ctx, q,
		res.ID, res.ResumeID, res.OriginalFileName, res.Timestamp, res.MatchScore, res.ShortlistProbability,
		res.SkillMatchScore, present, missing, extra, strengths, riskFlags,
		res.Summary, string(res.Recommendation), res.ParsingMetadata.WordCount, res.ParsingMetadata.DetectedFormat)
	if err != nil {
		return fmt.Errorf("op=analysis.insert: %w", err)
	}
	return nil
}

const analysisColumns = `id, resume_id, original_file_name, ts, match_score, shortlist_probability,
	skill_match_score, present_skills, missing_skills, extra_skills, strengths, risk_flags,
	summary, recommendation, word_count, detected_format`

// GetByID loads a result by id or returns ErrNotFound.
func (r *AnalysisRepo) GetByID(ctx domain.Context, id string) (domain.AnalysisResult, error) {
	tracer := otel.Tracer("repo.analyses")
	ctx, span := tracer.Start(ctx, "analyses.GetByID")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "analyses"),
	)
	row := r.Pool.QueryRow(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id=$1`, id)
	res, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AnalysisResult{}, fmt.Errorf("op=analysis.get: %w", domain.ErrNotFound)
		}
		return domain.AnalysisResult{}, fmt.Errorf("op=analysis.get: %w", err)
	}
	return res, nil
}

// ListRecent returns up to limit results, newest first.
func (r *AnalysisRepo) ListRecent(ctx domain.Context, limit int) ([]domain.AnalysisResult, error) {
	tracer := otel.Tracer("repo.analyses")
	ctx, span := tracer.Start(ctx, "analyses.ListRecent")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "analyses"),
	)
	rows, err := r.Pool.Query(ctx, `SELECT `+analysisColumns+` FROM analyses ORDER BY ts DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("op=analysis.list_recent: %w", err)
	}
	defer rows.Close()

	out := make([]domain.AnalysisResult, 0, limit)
	for rows.Next() {
		res, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("op=analysis.list_recent: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=analysis.list_recent: %w", err)
	}
	return out, nil
}

func scanAnalysis(row pgx.Row) (domain.AnalysisResult, error) {
	var (
		res       domain.AnalysisResult
		rec       string
		present   []byte
		missing   []byte
		extra     []byte
		strengths []byte
		riskFlags []byte
	)
	err := row.Scan(&res.ID, &res.ResumeID, &res.OriginalFileName, &res.Timestamp, &res.MatchScore,
		&res.ShortlistProbability, &res.SkillMatchScore, &present, &missing, &extra, &strengths,
		&riskFlags, &res.Summary, &rec, &res.ParsingMetadata.WordCount, &res.ParsingMetadata.DetectedFormat)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	res.Recommendation = domain.Recommendation(rec)
	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{present, &res.PresentSkills},
		{missing, &res.MissingSkills},
		{extra, &res.ExtraSkills},
		{strengths, &res.Strengths},
		{riskFlags, &res.RiskFlags},
	} {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return domain.AnalysisResult{}, err
		}
	}
	return res, nil
}

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

func coreSkill(name string) domain.Skill {
	return domain.Skill{Name: name, Category: domain.CategoryCoreTechnical}
}

func toolSkill(name string) domain.Skill {
	return domain.Skill{Name: name, Category: domain.CategoryToolsFrameworks}
}

func TestStrengths(t *testing.T) {
	t.Parallel()

	t.Run("high score", func(t *testing.T) {
		t.Parallel()
		got := Strengths(nil, nil, 81)
		assert.Equal(t, []string{"Strong overall match with job requirements."}, got)
	})

	t.Run("score of exactly 80 is not enough", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Strengths(nil, nil, 80))
	})

	t.Run("many present skills", func(t *testing.T) {
		t.Parallel()
		present := []domain.Skill{
			toolSkill("react"), toolSkill("docker"), toolSkill("aws"),
			toolSkill("gcp"), toolSkill("azure"), toolSkill("terraform"),
		}
		got := Strengths(present, nil, 50)
		assert.Contains(t, got, "Candidate possesses key required technical skills.")
	})

	t.Run("many extra skills", func(t *testing.T) {
		t.Parallel()
		extra := []domain.Skill{toolSkill("a"), toolSkill("b"), toolSkill("c"), toolSkill("d")}
		got := Strengths(nil, extra, 50)
		assert.Contains(t, got, "Candidate brings additional diverse skills to the table.")
	})

	t.Run("core stack lists top three", func(t *testing.T) {
		t.Parallel()
		present := []domain.Skill{
			coreSkill("python"), toolSkill("react"), coreSkill("go"),
			coreSkill("rust"), coreSkill("sql"),
		}
		got := Strengths(present, nil, 50)
		require.Len(t, got, 1)
		assert.Equal(t, "Strong core stack: python, go, rust.", got[0])
	})

	t.Run("no signals no strengths", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Strengths([]domain.Skill{toolSkill("react")}, nil, 40))
	})
}

func TestRiskFlags(t *testing.T) {
	t.Parallel()

	missingHigh := func(n int) []domain.MissingSkill {
		out := make([]domain.MissingSkill, n)
		for i := range out {
			out[i] = domain.MissingSkill{Skill: toolSkill("x"), Relevance: domain.RelevanceHigh}
		}
		return out
	}

	t.Run("many high-relevance missing", func(t *testing.T) {
		t.Parallel()
		got := RiskFlags(missingHigh(3), 500)
		require.Len(t, got, 1)
		assert.Equal(t, "Missing 3 high-relevance required skills.", got[0])
	})

	t.Run("two missing is tolerated", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, RiskFlags(missingHigh(2), 500))
	})

	t.Run("short resume", func(t *testing.T) {
		t.Parallel()
		got := RiskFlags(nil, 199)
		require.Len(t, got, 1)
		assert.Equal(t, "Resume is very short; content may be insufficient for reliable analysis.", got[0])
	})

	t.Run("word count boundary", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, RiskFlags(nil, 200))
	})

	t.Run("both flags", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, RiskFlags(missingHigh(5), 100), 2)
	})
}

func TestSummary(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"Excellent Match. This candidate closely aligns with the job description and should be shortlisted.",
		Summary(80, 0))
	assert.Equal(t,
		"Good potential match. The candidate has most core skills but lacks some distinct requirements.",
		Summary(60, 1))
	assert.Equal(t,
		"Low match. Missing 4 required skills. Review carefully before shortlisting.",
		Summary(59, 4))
}

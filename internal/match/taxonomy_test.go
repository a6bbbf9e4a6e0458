package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

func TestTaxonomyExtract(t *testing.T) {
	t.Parallel()
	tax := NewTaxonomy(nil)

	t.Run("finds skills in table order", func(t *testing.T) {
		t.Parallel()
		got := tax.Extract("i write react apps in typescript and deploy to aws", nil)
		require.Len(t, got, 3)
		assert.Equal(t, domain.Skill{Name: "typescript", Category: domain.CategoryCoreTechnical}, got[0])
		assert.Equal(t, domain.Skill{Name: "react", Category: domain.CategoryToolsFrameworks}, got[1])
		assert.Equal(t, domain.Skill{Name: "aws", Category: domain.CategoryToolsFrameworks}, got[2])
	})

	t.Run("whole word only", func(t *testing.T) {
		t.Parallel()
		// "javascript" must not also match "java", "scikit-learn" not "learn".
		got := tax.Extract("javascript developer", nil)
		require.Len(t, got, 1)
		assert.Equal(t, "javascript", got[0].Name)
	})

	t.Run("dotted terms match literally", func(t *testing.T) {
		t.Parallel()
		got := tax.Extract("built services with node.js and next.js", nil)
		names := skillNames(got)
		assert.Contains(t, names, "node.js")
		assert.Contains(t, names, "next.js")
		// The dot is not a wildcard: "nodeXjs" must not match.
		assert.Empty(t, tax.Extract("nodexjs", nil))
	})

	t.Run("symbol-edged terms match", func(t *testing.T) {
		t.Parallel()
		got := tax.Extract(NormalizeText("Senior C++ developer with Python experience"), nil)
		names := skillNames(got)
		assert.Contains(t, names, "c++")
		assert.Contains(t, names, "python")
		// At end of text and before punctuation too.
		assert.Contains(t, skillNames(tax.Extract("worked mostly in c++", nil)), "c++")
		assert.Contains(t, skillNames(tax.Extract("c++, rust and go", nil)), "c++")
		// Still whole-word: no match inside a longer token.
		assert.Empty(t, tax.Extract("c++11x", nil))
	})

	t.Run("no duplicates for repeated mentions", func(t *testing.T) {
		t.Parallel()
		got := tax.Extract("python python python", nil)
		require.Len(t, got, 1)
	})

	t.Run("empty text yields no skills", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, tax.Extract("", nil))
	})
}

func TestTaxonomyExtractCustomSkills(t *testing.T) {
	t.Parallel()
	tax := NewTaxonomy(nil)

	t.Run("custom skills appended in caller order", func(t *testing.T) {
		t.Parallel()
		custom := []domain.Skill{
			{Name: "elixir", Category: domain.CategoryCoreTechnical},
			{Name: "phoenix", Category: domain.CategoryToolsFrameworks},
		}
		got := tax.Extract("python and elixir with phoenix", custom)
		require.Len(t, got, 3)
		assert.Equal(t, "python", got[0].Name)
		assert.Equal(t, "elixir", got[1].Name)
		assert.Equal(t, "phoenix", got[2].Name)
	})

	t.Run("empty and duplicate custom names are skipped", func(t *testing.T) {
		t.Parallel()
		custom := []domain.Skill{
			{Name: "", Category: domain.CategoryOther},
			{Name: "Python", Category: domain.CategoryOther},
		}
		got := tax.Extract("python", custom)
		require.Len(t, got, 1)
		assert.Equal(t, domain.CategoryCoreTechnical, got[0].Category)
	})

	t.Run("custom skill with symbol edge matches", func(t *testing.T) {
		t.Parallel()
		custom := []domain.Skill{{Name: "c#", Category: domain.CategoryCoreTechnical}}
		got := tax.Extract("c# and .net backend services", custom)
		require.Len(t, got, 1)
		assert.Equal(t, "c#", got[0].Name)
	})

	t.Run("unknown custom category falls back to Other", func(t *testing.T) {
		t.Parallel()
		custom := []domain.Skill{{Name: "cobol", Category: "Vintage"}}
		got := tax.Extract("cobol maintainer", custom)
		require.Len(t, got, 1)
		assert.Equal(t, domain.CategoryOther, got[0].Category)
	})
}

func TestLoadTaxonomyFile(t *testing.T) {
	t.Parallel()

	t.Run("loads entries", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "skills.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"skills:\n  - name: Elixir\n    category: Core Technical\n  - name: kafka\n    category: nonsense\n"), 0o600))

		got, err := LoadTaxonomyFile(path)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, taxonomyEntry{Term: "elixir", Category: domain.CategoryCoreTechnical}, got[0])
		assert.Equal(t, taxonomyEntry{Term: "kafka", Category: domain.CategoryOther}, got[1])
	})

	t.Run("rejects empty names", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "skills.yaml")
		require.NoError(t, os.WriteFile(path, []byte("skills:\n  - name: \"\"\n    category: Other\n"), 0o600))

		_, err := LoadTaxonomyFile(path)
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTaxonomyFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func skillNames(skills []domain.Skill) []string {
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return names
}

package match

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

// taxonomyEntry pairs a skill term with its category. Entries are kept in a
// slice, not a map, because extraction order is part of the contract: built-in
// terms in table order, then custom skills in caller order.
type taxonomyEntry struct {
	Term     string
	Category domain.SkillCategory
}

// defaultTaxonomy is the built-in skill table. Terms are lowercase; matching
// is whole-word and case-insensitive.
var defaultTaxonomy = []taxonomyEntry{
	// Languages
	{"python", domain.CategoryCoreTechnical},
	{"javascript", domain.CategoryCoreTechnical},
	{"typescript", domain.CategoryCoreTechnical},
	{"java", domain.CategoryCoreTechnical},
	{"c++", domain.CategoryCoreTechnical},
	{"go", domain.CategoryCoreTechnical},
	{"rust", domain.CategoryCoreTechnical},
	{"sql", domain.CategoryCoreTechnical},
	{"html", domain.CategoryCoreTechnical},
	{"css", domain.CategoryCoreTechnical},

	// Frameworks, tools and cloud
	{"react", domain.CategoryToolsFrameworks},
	{"next.js", domain.CategoryToolsFrameworks},
	{"node.js", domain.CategoryToolsFrameworks},
	{"django", domain.CategoryToolsFrameworks},
	{"flask", domain.CategoryToolsFrameworks},
	{"fastapi", domain.CategoryToolsFrameworks},
	{"spring", domain.CategoryToolsFrameworks},
	{"boot", domain.CategoryToolsFrameworks},
	{"tensorflow", domain.CategoryToolsFrameworks},
	{"pytorch", domain.CategoryToolsFrameworks},
	{"scikit-learn", domain.CategoryToolsFrameworks},
	{"pandas", domain.CategoryToolsFrameworks},
	{"numpy", domain.CategoryToolsFrameworks},
	{"aws", domain.CategoryToolsFrameworks},
	{"azure", domain.CategoryToolsFrameworks},
	{"gcp", domain.CategoryToolsFrameworks},
	{"docker", domain.CategoryToolsFrameworks},
	{"kubernetes", domain.CategoryToolsFrameworks},
	{"terraform", domain.CategoryToolsFrameworks},
	{"serverless", domain.CategoryToolsFrameworks},
	{"dynamodb", domain.CategoryToolsFrameworks},
	{"vercel", domain.CategoryToolsFrameworks},

	// Soft skills
	{"leadership", domain.CategorySoftSkills},
	{"communication", domain.CategorySoftSkills},
	{"teamwork", domain.CategorySoftSkills},
	{"problem solving", domain.CategorySoftSkills},
	{"agile", domain.CategorySoftSkills},
	{"scrum", domain.CategorySoftSkills},
	{"mentorship", domain.CategorySoftSkills},
	{"collaboration", domain.CategorySoftSkills},
}

// Taxonomy extracts skills from normalized text by whole-word matching.
type Taxonomy struct {
	entries []taxonomyEntry
	// compiled regexes, one per entry, built once at construction.
	patterns []*regexp.Regexp
}

// NewTaxonomy builds the default taxonomy, optionally augmented with extra
// entries loaded from a YAML file (see LoadTaxonomyFile). Extra entries are
// appended after the built-in table.
func NewTaxonomy(extra []taxonomyEntry) *Taxonomy {
	entries := make([]taxonomyEntry, 0, len(defaultTaxonomy)+len(extra))
	entries = append(entries, defaultTaxonomy...)
	entries = append(entries, extra...)

	t := &Taxonomy{entries: entries, patterns: make([]*regexp.Regexp, len(entries))}
	for i, e := range entries {
		t.patterns[i] = termPattern(e.Term)
	}
	return t
}

// termPattern compiles a case-insensitive whole-word pattern for term. The
// term itself is quoted so "next.js" matches literally. A \b anchor only
// works against a word-character edge; terms ending in symbols ("c++", "c#")
// get an explicit non-word-or-boundary class instead, since \b after "+"
// can never match.
func termPattern(term string) *regexp.Regexp {
	left, right := `\b`, `\b`
	if r := []rune(term); len(r) > 0 {
		if !isWordRune(r[0]) {
			left = `(?:^|[^a-z0-9_])`
		}
		if !isWordRune(r[len(r)-1]) {
			right = `(?:[^a-z0-9_]|$)`
		}
	}
	return regexp.MustCompile(`(?i)` + left + regexp.QuoteMeta(term) + right)
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Extract returns every taxonomy skill present in text, in table order,
// followed by custom skills in caller order. Custom skills with an empty
// name or a name already covered by the table are skipped; a custom skill
// with an unknown category falls back to CategoryOther.
func (t *Taxonomy) Extract(text string, custom []domain.Skill) []domain.Skill {
	found := make([]domain.Skill, 0, 8)
	seen := make(map[string]struct{}, 8)

	for i, e := range t.entries {
		if t.patterns[i].MatchString(text) {
			found = append(found, domain.Skill{Name: e.Term, Category: e.Category})
			seen[e.Term] = struct{}{}
		}
	}

	for _, cs := range custom {
		name := strings.ToLower(strings.TrimSpace(cs.Name))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		if !termPattern(name).MatchString(text) {
			continue
		}
		cat := cs.Category
		if !cat.Valid() {
			cat = domain.CategoryOther
		}
		found = append(found, domain.Skill{Name: name, Category: cat})
		seen[name] = struct{}{}
	}
	return found
}

// taxonomyFile is the YAML shape for extra taxonomy entries:
//
//	skills:
//	  - name: elixir
//	    category: Core Technical
type taxonomyFile struct {
	Skills []struct {
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
	} `yaml:"skills"`
}

// LoadTaxonomyFile reads extra taxonomy entries from a YAML file.
// Invalid categories fall back to CategoryOther; empty names are rejected.
func LoadTaxonomyFile(path string) ([]taxonomyEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=match.LoadTaxonomyFile: %w", err)
	}
	var f taxonomyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("op=match.LoadTaxonomyFile: %w: %v", domain.ErrInvalidArgument, err)
	}
	out := make([]taxonomyEntry, 0, len(f.Skills))
	for _, s := range f.Skills {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			return nil, fmt.Errorf("op=match.LoadTaxonomyFile: %w: skill with empty name", domain.ErrInvalidArgument)
		}
		cat := domain.SkillCategory(s.Category)
		if !cat.Valid() {
			cat = domain.CategoryOther
		}
		out = append(out, taxonomyEntry{Term: name, Category: cat})
	}
	return out, nil
}

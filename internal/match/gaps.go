package match

import "github.com/fairyhunter13/resume-match/internal/domain"

// GapReport is the output of AnalyzeGaps.
type GapReport struct {
	Present []domain.Skill
	Missing []domain.MissingSkill
	Extra   []domain.Skill
	// SkillMatchScore is present/|jdSkills| on a 0..100 scale, 100 when the
	// job description yields no skills at all.
	SkillMatchScore float64
}

// AnalyzeGaps set-differences the two skill lists by lowercased name.
// Present skills keep the JD-side category. Missing skills are always
// tagged RelevanceHigh; graduated relevance is not implemented.
func AnalyzeGaps(resumeSkills, jdSkills []domain.Skill) GapReport {
	resumeNames := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		resumeNames[s.Name] = struct{}{}
	}
	jdNames := make(map[string]struct{}, len(jdSkills))
	for _, s := range jdSkills {
		jdNames[s.Name] = struct{}{}
	}

	r := GapReport{
		Present: make([]domain.Skill, 0, len(jdSkills)),
		Missing: make([]domain.MissingSkill, 0, len(jdSkills)),
		Extra:   make([]domain.Skill, 0, len(resumeSkills)),
	}
	for _, s := range jdSkills {
		if _, ok := resumeNames[s.Name]; ok {
			r.Present = append(r.Present, s)
		} else {
			r.Missing = append(r.Missing, domain.MissingSkill{Skill: s, Relevance: domain.RelevanceHigh})
		}
	}
	for _, s := range resumeSkills {
		if _, ok := jdNames[s.Name]; !ok {
			r.Extra = append(r.Extra, s)
		}
	}

	if len(jdSkills) == 0 {
		r.SkillMatchScore = 100
	} else {
		r.SkillMatchScore = float64(len(r.Present)) / float64(len(jdSkills)) * 100
	}
	return r
}

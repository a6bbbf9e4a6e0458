package match

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

// Strengths produces the deterministic strengths list for a result.
// Wording is part of the output contract and must not drift.
func Strengths(present, extra []domain.Skill, matchScore int) []string {
	strengths := make([]string, 0, 4)
	if matchScore > 80 {
		strengths = append(strengths, "Strong overall match with job requirements.")
	}
	if len(present) > 5 {
		strengths = append(strengths, "Candidate possesses key required technical skills.")
	}
	if len(extra) > 3 {
		strengths = append(strengths, "Candidate brings additional diverse skills to the table.")
	}

	core := make([]string, 0, 3)
	for _, s := range present {
		if s.Category == domain.CategoryCoreTechnical {
			core = append(core, s.Name)
		}
		if len(core) == 3 {
			break
		}
	}
	if len(core) > 0 {
		strengths = append(strengths, fmt.Sprintf("Strong core stack: %s.", strings.Join(core, ", ")))
	}
	return strengths
}

// minResumeWords is the word count below which a brevity risk flag fires.
const minResumeWords = 200

// RiskFlags produces the deterministic risk flag list: one flag when more
// than two high-relevance skills are missing, one when the resume is
// suspiciously short.
func RiskFlags(missing []domain.MissingSkill, resumeWordCount int) []string {
	flags := make([]string, 0, 2)
	highMissing := 0
	for _, m := range missing {
		if m.Relevance == domain.RelevanceHigh {
			highMissing++
		}
	}
	if highMissing > 2 {
		flags = append(flags, fmt.Sprintf("Missing %d high-relevance required skills.", highMissing))
	}
	if resumeWordCount < minResumeWords {
		flags = append(flags, "Resume is very short; content may be insufficient for reliable analysis.")
	}
	return flags
}

// Summary produces the score-band summary text.
func Summary(matchScore, missingCount int) string {
	switch {
	case matchScore >= 80:
		return "Excellent Match. This candidate closely aligns with the job description and should be shortlisted."
	case matchScore >= 60:
		return "Good potential match. The candidate has most core skills but lacks some distinct requirements."
	default:
		return fmt.Sprintf("Low match. Missing %d required skills. Review carefully before shortlisting.", missingCount)
	}
}

package match

import (
	"math"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

// FuseScores combines the three signals under percentage weights:
//
//	round(clamp(0, 100, (semantic*wSem + skill*wSkills + keyword*wKw) / 100))
//
// The divisor is a fixed 100, not the weight sum. Weights that do not sum
// to 100 therefore scale the result proportionally instead of being
// renormalized; this is a documented non-strict invariant, kept as-is.
func FuseScores(semantic, skillMatch, keywordCoverage float64, w domain.Weights) int {
	raw := (semantic*w.Semantic + skillMatch*w.Skills + keywordCoverage*w.Keywords) / 100
	return int(math.Round(math.Min(100, math.Max(0, raw))))
}

// ShortlistProbability derives a bounded confidence figure from the match
// score: -10 when more than 3 required skills are missing, +5 when the
// resume yields more than 10 skills, clamped to [5, 98]. The bounds are
// deliberate; the heuristic never reports certainty in either direction.
func ShortlistProbability(matchScore, resumeSkillCount, missingCount int) float64 {
	prob := float64(matchScore)
	if missingCount > 3 {
		prob -= 10
	}
	if resumeSkillCount > 10 {
		prob += 5
	}
	return math.Min(98, math.Max(5, prob))
}

// recommendation thresholds per strictness: shortlist-at and review-at.
var thresholds = map[domain.Strictness][2]int{
	domain.StrictnessHigh:   {85, 60},
	domain.StrictnessMedium: {80, 50},
	domain.StrictnessLow:    {70, 40},
}

// Recommend classifies a match score under the given strictness. Unknown
// strictness values fall back to medium.
func Recommend(matchScore int, strictness domain.Strictness) domain.Recommendation {
	t, ok := thresholds[strictness]
	if !ok {
		t = thresholds[domain.StrictnessMedium]
	}
	switch {
	case matchScore >= t[0]:
		return domain.RecommendShortlist
	case matchScore >= t[1]:
		return domain.RecommendReview
	default:
		return domain.RecommendReject
	}
}

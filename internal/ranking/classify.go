// Package ranking turns ranking results from the service into display data.
package ranking

import (
	"fmt"
	"math"

	"github.com/jonathan/jd-admin/internal/types"
)

// Score thresholds for Classify. A score must exceed the threshold.
const (
	HighThreshold   = 0.7
	MediumThreshold = 0.5
)

// UCIDPrefix is prepended to the row sequence number of a candidate.
const UCIDPrefix = "NVISUST-2025-"

// keySkillCount is the number of matched keywords shown as key skills.
const keySkillCount = 5

// Classify maps a score in [0,1] to a match level.
func Classify(score float64) types.MatchLevel {
	switch {
	case score > HighThreshold:
		return types.MatchHigh
	case score > MediumThreshold:
		return types.MatchMedium
	default:
		return types.MatchLow
	}
}

// Decide returns PASS only when the service marked the result a high match.
// The service status is authoritative here, not Classify.
func Decide(status string) types.ScreeningDecision {
	if status == string(types.MatchHigh) {
		return types.DecisionPass
	}
	return types.DecisionReview
}

// UCID returns the display identifier for the 1-based row index.
func UCID(index int) string {
	return fmt.Sprintf("%s%04d", UCIDPrefix, index)
}

// FitScore converts a score to a rounded integer percentage.
func FitScore(score float64) int {
	return int(math.Round(score * 100))
}

// Percent formats a score as a percentage with one decimal.
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// ToCandidates projects ranking results into candidate display rows for jobID.
func ToCandidates(jobID string, results []types.RankingResult) []types.Candidate {
	candidates := make([]types.Candidate, 0, len(results))
	for i, r := range results {
		n := i + 1

		name := r.CandidateName
		if name == "" {
			name = fmt.Sprintf("Candidate %d", n)
		}

		skills := r.MatchedKeywords
		if len(skills) > keySkillCount {
			skills = skills[:keySkillCount]
		}
		keySkills := make([]string, len(skills))
		copy(keySkills, skills)

		candidates = append(candidates, types.Candidate{
			UCID:              UCID(n),
			CandidateName:     name,
			JobID:             jobID,
			FitScore:          FitScore(r.Score),
			KeySkills:         keySkills,
			ExperienceSummary: fmt.Sprintf("Experience level: %.1f/1.0", r.ExperienceLevel),
			Strengths: []string{
				"Role category: " + r.RoleCategory,
				fmt.Sprintf("Rank: %d", r.Rank),
				"Status: " + r.Status,
			},
			Gaps:              []string{},
			ScreeningDecision: Decide(r.Status),
			MatchLevel:        Classify(r.Score),
		})
	}
	return candidates
}

package types

// MatchLevel is the tri-state classification of a ranking score.
type MatchLevel string

const (
	MatchHigh   MatchLevel = "High Match"
	MatchMedium MatchLevel = "Medium Match"
	MatchLow    MatchLevel = "Low Match"
)

// ScreeningDecision is the binary outcome shown for a candidate row.
type ScreeningDecision string

const (
	DecisionPass   ScreeningDecision = "PASS"
	DecisionReview ScreeningDecision = "REVIEW"
)

// RankingResult is one ranked resume returned by the service.
type RankingResult struct {
	Rank            int      `json:"rank"`
	ResumeName      string   `json:"resume_name"`
	CandidateName   string   `json:"candidate_name,omitempty"`
	Score           float64  `json:"score"`
	RoleCategory    string   `json:"role_category,omitempty"`
	ExperienceLevel float64  `json:"experience_level"`
	MatchedKeywords []string `json:"matched_keywords"`
	Status          string   `json:"status,omitempty"`
}

// RankingResponse is the body of a rank-resumes call.
type RankingResponse struct {
	JDID          string          `json:"jd_id"`
	DriveFolderID string          `json:"drive_folder_id"`
	Results       []RankingResult `json:"results"`
	Note          string          `json:"note,omitempty"`
}

// Candidate is a display row derived from a RankingResult.
// UCID is synthesized from the row position and is not stable across requests.
type Candidate struct {
	UCID              string            `json:"ucid"`
	CandidateName     string            `json:"candidate_name"`
	JobID             string            `json:"job_id"`
	FitScore          int               `json:"fit_score"`
	KeySkills         []string          `json:"key_skills"`
	ExperienceSummary string            `json:"experience_summary"`
	Strengths         []string          `json:"strengths"`
	Gaps              []string          `json:"gaps"`
	ScreeningDecision ScreeningDecision `json:"screening_decision"`
	MatchLevel        MatchLevel        `json:"match_level"`
}

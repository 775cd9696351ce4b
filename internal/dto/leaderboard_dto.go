package dto

// LeaderboardEntry is one ranked row of the PPT leaderboard. AI evaluation
// takes precedence; the judge average is the fallback; unevaluated teams are
// appended with nil scores.
type LeaderboardEntry struct {
	TeamName             string   `json:"team_name"`
	InnovationUniqueness *float64 `json:"innovation_uniqueness"`
	TechnicalFeasibility *float64 `json:"technical_feasibility"`
	PotentialImpact      *float64 `json:"potential_impact"`
	TotalScore           *float64 `json:"total_score"`
	Rank                 *int     `json:"rank"`
	Status               string   `json:"status"`
}

const (
	// LeaderboardStatusAI marks an entry scored by the external evaluator.
	LeaderboardStatusAI = "ai_evaluated"
	// LeaderboardStatusJudge marks an entry scored by judge average.
	LeaderboardStatusJudge = "judge_evaluated"
	// LeaderboardStatusPending marks a team with no evaluation yet.
	LeaderboardStatusPending = "pending"
)

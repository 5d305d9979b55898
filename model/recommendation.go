package model

// ScoredRecommendation is a ranked record with the explanation of its score
type ScoredRecommendation struct {
	ID           int64      `json:"id"`
	TaskName     string     `json:"task_name"`
	RiskFactor   string     `json:"risk_factor"`
	AccidentType string     `json:"accident_type"`
	Score        int        `json:"score"`
	Reason       string     `json:"reason"`          // Fired rules joined with " + "
	Grade        *RiskGrade `json:"grade,omitempty"` // Informational, never part of Score
}

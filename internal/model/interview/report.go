package interview

// Recommendation is the hiring verdict derived from the final running score.
type Recommendation string

const (
	RecommendHire       Recommendation = "Hire"
	RecommendBorderline Recommendation = "Borderline"
	RecommendNoHire     Recommendation = "No-Hire"
)

// FeedbackReport is the terminal artifact, created exactly once when the
// session completes.
type FeedbackReport struct {
	Report         string         `json:"report"`
	Recommendation Recommendation `json:"recommendation"`
	SkillRoadmap   []string       `json:"skill_roadmap"`
	FinalScores    RunningScore   `json:"final_scores"`
}

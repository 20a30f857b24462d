package interview

// Question is one generated interview question.
type Question struct {
	Question    string `json:"question"`
	Difficulty  string `json:"difficulty"`
	Topic       string `json:"topic"`
	Explanation string `json:"explanation"`
}

// FollowUpDecision is the outcome of the follow-up detection capability.
type FollowUpDecision struct {
	Needed   bool   `json:"needs_followup"`
	Question string `json:"followup_question"`
	Reason   string `json:"reason"`
}

// FeedbackDraft is the raw feedback-synthesis output before the final scores
// are attached to build the terminal FeedbackReport.
type FeedbackDraft struct {
	Report         string   `json:"report"`
	Recommendation string   `json:"recommendation"`
	SkillRoadmap   []string `json:"skill_roadmap"`
}

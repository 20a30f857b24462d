package interview

// ScoreSample holds the three bounded dimension scores for one answer.
// Values are clamped to [0,10] on creation and never mutated afterwards.
type ScoreSample struct {
	Technical     float64  `json:"technical"`
	Design        float64  `json:"design"`
	Communication float64  `json:"communication"`
	Feedback      string   `json:"feedback"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
}

// Exchange is one asked question (or follow-up) paired with the candidate's
// answer and the resulting score.
type Exchange struct {
	Question   string      `json:"question"`
	Answer     string      `json:"answer"`
	Topic      string      `json:"topic"`
	Difficulty string      `json:"difficulty"`
	IsFollowUp bool        `json:"is_followup"`
	Score      ScoreSample `json:"score"`
}

// RunningScore is the per-dimension arithmetic mean over all samples so far.
// It is recomputed from the exchange list, never independently mutated.
type RunningScore struct {
	Technical     float64 `json:"technical"`
	Design        float64 `json:"design"`
	Communication float64 `json:"communication"`
}

package interview

import "github.com/hireloop/backend/internal/model/interview"

// Outbound event types.
const (
	EventConnected     = "connected"
	EventIntro         = "intro"
	EventNewQuestion   = "new_question"
	EventFollowUp      = "followup"
	EventScoreUpdate   = "score_update"
	EventPhaseUpdate   = "phase_update"
	EventTimeRemaining = "time_remaining"
	EventFeedback      = "feedback"
	EventError         = "error"
	EventVoiceMode     = "voice_mode"
	EventStatus        = "status"
)

// Error codes carried in error events.
const (
	CodeValidation = "validation_error"
	CodeConflict   = "conflict"
	CodeRetryable  = "retryable"
	CodeInternal   = "internal_error"
)

// Event is one server-to-client message in the {type, data} envelope.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Emitter delivers events for one session in causal order, at most once
// each. Close flushes nothing further; the terminal feedback event must be
// the last one emitted before Close.
type Emitter interface {
	Emit(evt Event)
	Close(code int)
}

// ConnectedData is the snapshot replayed on every (re)connection.
type ConnectedData struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Phase     string `json:"phase"`
	Role      string `json:"role,omitempty"`
	Seniority string `json:"seniority,omitempty"`
}

type IntroData struct {
	Message    string   `json:"message"`
	Phase      string   `json:"phase"`
	Seniority  string   `json:"seniority"`
	FocusAreas []string `json:"focus_areas"`
}

type NewQuestionData struct {
	Question       string `json:"question"`
	Difficulty     string `json:"difficulty"`
	Topic          string `json:"topic"`
	Explanation    string `json:"explanation"`
	QuestionNumber int    `json:"question_number"`
	TimeRemaining  int    `json:"time_remaining"`
}

type FollowUpData struct {
	Question      string `json:"question"`
	Reason        string `json:"reason"`
	TimeRemaining int    `json:"time_remaining"`
}

type ScoreUpdateData struct {
	CurrentScores  DimensionScores `json:"current_scores"`
	RunningAverage DimensionScores `json:"running_average"`
	Feedback       string          `json:"feedback"`
	Strengths      []string        `json:"strengths"`
	Improvements   []string        `json:"improvements"`
}

// DimensionScores is the wire shape shared by current and running scores.
type DimensionScores struct {
	Technical     float64 `json:"technical"`
	Design        float64 `json:"design"`
	Communication float64 `json:"communication"`
}

type PhaseUpdateData struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

type TimeRemainingData struct {
	Seconds   int    `json:"seconds"`
	Formatted string `json:"formatted"`
}

type FeedbackData struct {
	Report         string          `json:"report"`
	Recommendation string          `json:"recommendation"`
	SkillRoadmap   []string        `json:"skill_roadmap"`
	FinalScores    DimensionScores `json:"final_scores"`
	Phase          string          `json:"phase"`
}

type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type VoiceModeData struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

type StatusData struct {
	SessionID      string          `json:"session_id"`
	Phase          string          `json:"phase"`
	QuestionsAsked int             `json:"questions_asked"`
	MaxQuestions   int             `json:"max_questions"`
	TimeRemaining  int             `json:"time_remaining"`
	IsTimeUp       bool            `json:"is_time_up"`
	ShouldEnd      bool            `json:"should_end"`
	CurrentScores  DimensionScores `json:"current_scores"`
}

func toDimensionScores(r interview.RunningScore) DimensionScores {
	return DimensionScores{
		Technical:     r.Technical,
		Design:        r.Design,
		Communication: r.Communication,
	}
}

func sampleScores(s interview.ScoreSample) DimensionScores {
	return DimensionScores{
		Technical:     s.Technical,
		Design:        s.Design,
		Communication: s.Communication,
	}
}

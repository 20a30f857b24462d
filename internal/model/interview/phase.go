package interview

// Phase is the single source of truth for which commands a session accepts.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseIntro      Phase = "intro"
	PhaseQuestions  Phase = "questions"
	PhaseFollowUp   Phase = "followup"
	PhaseEvaluation Phase = "evaluating"
	PhaseFeedback   Phase = "feedback"
	PhaseCompleted  Phase = "completed"
	PhaseAborted    Phase = "aborted"
)

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAborted
}

// Settling reports whether the session is past the questioning loop and the
// deadline must no longer disturb it.
func (p Phase) Settling() bool {
	return p == PhaseEvaluation || p == PhaseFeedback || p.Terminal()
}

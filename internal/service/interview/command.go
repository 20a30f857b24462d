package interview

// Command is the closed set of client instructions. Decoding happens at the
// connection layer; the state machine matches the concrete types
// exhaustively, so an unhandled kind cannot slip through at runtime.
type Command interface {
	isCommand()
}

// Start begins the interview. Valid only in the setup phase.
type Start struct{}

// Ready asks for the first question. Valid only in the intro phase.
type Ready struct{}

// Answer submits the candidate's response to the pending question.
type Answer struct {
	Text string
}

// VoiceToggle flips the voice side-channel flag without touching the phase.
type VoiceToggle struct {
	Enabled bool
}

// StatusRequest asks for an orchestrator status snapshot.
type StatusRequest struct{}

func (Start) isCommand()         {}
func (Ready) isCommand()         {}
func (Answer) isCommand()        {}
func (VoiceToggle) isCommand()   {}
func (StatusRequest) isCommand() {}

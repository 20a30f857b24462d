package interview

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/hireloop/backend/internal/metrics"
	"github.com/hireloop/backend/internal/model/interview"
)

// Websocket close codes issued by the machine itself.
const (
	CloseNormal        = 1000
	CloseInternalError = 1011
)

// Archiver persists the transcript of a completed session when the candidate
// opted in.
type Archiver interface {
	SaveTranscript(ctx context.Context, session *interview.Session) error
}

// Machine is the sole authority over a session's phase transitions. Commands
// are processed strictly one at a time: the pipeline's single-flight token is
// claimed for the whole command, and a command that arrives while another is
// in flight is rejected with a conflict, never queued. The timer goroutine
// competes for the same token, so deadline handling can never interleave with
// command processing.
type Machine struct {
	session  *interview.Session
	pipeline *Pipeline
	timer    *Timer
	policy   RecommendationPolicy
	archiver Archiver

	emitterMu sync.RWMutex
	emitter   Emitter

	// retire removes the session from the registry once the machine hits
	// the aborted state. Set by the owning service.
	retire func()

	// Question-cursor state below is only touched while holding the
	// single-flight token.
	current           *interview.Question
	currentIsFollowUp bool
	currentFollowUps  int
	asked             []string
	questionCount     int
	ended             bool
}

// NewMachine wires a machine around one session. archiver may be nil.
func NewMachine(session *interview.Session, pipeline *Pipeline, timer *Timer, policy RecommendationPolicy, archiver Archiver) *Machine {
	return &Machine{
		session:  session,
		pipeline: pipeline,
		timer:    timer,
		policy:   policy,
		archiver: archiver,
	}
}

// SetEmitter binds (or rebinds, after a reconnect) the outbound channel.
func (m *Machine) SetEmitter(e Emitter) {
	m.emitterMu.Lock()
	m.emitter = e
	m.emitterMu.Unlock()
}

// Session exposes the aggregate for read-only snapshots.
func (m *Machine) Session() *interview.Session {
	return m.session
}

// HandleCommand validates and applies one client command. The ctx is tied to
// the owning connection; when it is cancelled mid-call the stale result is
// discarded and no further events are emitted for it.
func (m *Machine) HandleCommand(ctx context.Context, cmd Command) {
	if !m.pipeline.TryAcquire() {
		m.emitError("Another command is still being processed.", CodeConflict)
		return
	}
	m.process(ctx, cmd)
}

// Dispatch claims the execution token in the caller's goroutine, so commands
// read back to back are accepted or rejected in arrival order, then processes
// the accepted command asynchronously.
func (m *Machine) Dispatch(ctx context.Context, cmd Command) {
	if !m.pipeline.TryAcquire() {
		m.emitError("Another command is still being processed.", CodeConflict)
		return
	}
	go m.process(ctx, cmd)
}

// process runs with the token held. A panic in command handling is contained
// to this session: the token is released and the machine aborts instead of
// taking the whole process down.
func (m *Machine) process(ctx context.Context, cmd Command) {
	defer m.pipeline.Release()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[machine] panic handling command for session=%s: %v", m.session.ID, r)
			m.pipeline.Release()
			m.Abort("An internal error ended the interview.")
		}
	}()

	switch c := cmd.(type) {
	case Start:
		m.handleStart(ctx)
	case Ready:
		m.handleReady(ctx)
	case Answer:
		m.handleAnswer(ctx, c.Text)
	case VoiceToggle:
		m.handleVoiceToggle(c.Enabled)
	case StatusRequest:
		m.emit(Event{Type: EventStatus, Data: m.statusData()})
	}

	// The deadline may have fired while this command held the token; the
	// end-of-interview condition is re-checked before the token is released.
	if !m.ended && m.timer.Expired() && !m.session.Phase().Settling() && m.session.Phase() != interview.PhaseSetup {
		m.endInterview(context.Background())
	}
}

func (m *Machine) handleStart(ctx context.Context) {
	if m.session.Phase() != interview.PhaseSetup {
		m.emitError("Interview already started.", CodeValidation)
		return
	}

	if m.session.Profile() == nil {
		resume, jobDescription, role := m.session.Intake()
		profile, err := m.pipeline.AnalyzeProfile(ctx, resume, jobDescription, role)
		if err != nil {
			log.Printf("[machine] profile analysis failed for session=%s: %v", m.session.ID, err)
			m.emitError("Profile analysis is unavailable right now. Please try again.", CodeRetryable)
			return
		}
		if ctx.Err() != nil {
			return
		}
		m.session.SetProfile(profile)
	}

	m.session.MarkStarted(time.Now().UTC())
	metrics.SessionsStarted.Inc()
	m.timer.Start(m.onTick, m.onDeadline)

	profile := m.session.Profile()
	m.session.SetPhase(interview.PhaseIntro)
	m.emit(Event{Type: EventIntro, Data: IntroData{
		Message:    introMessage(m.session.Role(), profile.Seniority, profile.FocusAreas, m.session.Settings),
		Phase:      string(interview.PhaseIntro),
		Seniority:  string(profile.Seniority),
		FocusAreas: profile.FocusAreas,
	}})
}

func (m *Machine) handleReady(ctx context.Context) {
	if m.session.Phase() != interview.PhaseIntro {
		m.emitError("Not waiting for a ready signal.", CodeValidation)
		return
	}
	m.askNextQuestion(ctx)
}

func (m *Machine) handleAnswer(ctx context.Context, text string) {
	phase := m.session.Phase()
	if phase != interview.PhaseQuestions && phase != interview.PhaseFollowUp {
		m.emitError("No active question to answer.", CodeValidation)
		return
	}
	if m.current == nil {
		m.emitError("No active question to answer.", CodeValidation)
		return
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		m.emitError("Please provide an answer.", CodeValidation)
		return
	}

	seniority := m.session.Profile().Seniority
	sample := m.pipeline.EvaluateAnswer(ctx, m.current.Question, trimmed, m.current.Topic, seniority)
	if ctx.Err() != nil {
		return
	}

	exchange := interview.Exchange{
		Question:   m.current.Question,
		Answer:     trimmed,
		Topic:      m.current.Topic,
		Difficulty: m.current.Difficulty,
		IsFollowUp: m.currentIsFollowUp,
		Score:      *sample,
	}
	running := RunningAverage(append(m.session.Exchanges(), exchange))
	m.session.AppendExchange(exchange, running)

	m.emit(Event{Type: EventScoreUpdate, Data: ScoreUpdateData{
		CurrentScores:  sampleScores(*sample),
		RunningAverage: toDimensionScores(running),
		Feedback:       sample.Feedback,
		Strengths:      sample.Strengths,
		Improvements:   sample.Improvements,
	}})

	// The question cap and the deadline preempt any follow-up probing.
	if m.shouldEnd() {
		m.endInterview(ctx)
		return
	}

	decision := m.pipeline.FollowUpDecision(ctx, m.current.Question, trimmed, seniority, m.currentFollowUps)
	if ctx.Err() != nil {
		return
	}

	if decision.Needed && m.currentFollowUps < m.session.Settings.MaxFollowUps {
		m.askFollowUp(decision)
		return
	}

	m.askNextQuestion(ctx)
}

func (m *Machine) handleVoiceToggle(enabled bool) {
	if m.session.Phase().Terminal() {
		m.emitError("Interview already finished.", CodeValidation)
		return
	}
	m.session.SetVoiceEnabled(enabled)
	m.emit(Event{Type: EventVoiceMode, Data: VoiceModeData{
		Enabled: enabled,
		Message: "Voice mode toggled",
	}})
}

func (m *Machine) askNextQuestion(ctx context.Context) {
	if m.shouldEnd() {
		m.endInterview(ctx)
		return
	}

	q := m.pipeline.NextQuestion(ctx, m.session.Profile(), m.session.Role(), m.asked)
	if ctx.Err() != nil {
		return
	}

	m.current = q
	m.currentIsFollowUp = false
	m.currentFollowUps = 0
	m.asked = append(m.asked, q.Question)
	m.questionCount++
	m.session.SetPhase(interview.PhaseQuestions)

	m.emit(Event{Type: EventNewQuestion, Data: NewQuestionData{
		Question:       q.Question,
		Difficulty:     q.Difficulty,
		Topic:          q.Topic,
		Explanation:    q.Explanation,
		QuestionNumber: m.questionCount,
		TimeRemaining:  m.remainingSeconds(),
	}})
}

func (m *Machine) askFollowUp(decision *interview.FollowUpDecision) {
	m.currentFollowUps++
	m.current = &interview.Question{
		Question:   decision.Question,
		Difficulty: m.current.Difficulty,
		Topic:      m.current.Topic,
	}
	m.currentIsFollowUp = true
	m.session.SetPhase(interview.PhaseFollowUp)

	m.emit(Event{Type: EventFollowUp, Data: FollowUpData{
		Question:      decision.Question,
		Reason:        decision.Reason,
		TimeRemaining: m.remainingSeconds(),
	}})
}

// shouldEnd is the end-of-interview condition: question cap reached or time
// budget exhausted.
func (m *Machine) shouldEnd() bool {
	return m.questionCount >= m.session.Settings.MaxQuestions || m.timer.Expired()
}

// endInterview drives evaluation and feedback synthesis. It always reaches a
// terminal state: the feedback pipeline falls back to a templated report
// rather than leaving the session open.
func (m *Machine) endInterview(ctx context.Context) {
	if m.ended {
		return
	}
	m.ended = true
	m.timer.Stop()

	m.session.SetPhase(interview.PhaseEvaluation)
	m.emit(Event{Type: EventPhaseUpdate, Data: PhaseUpdateData{
		Phase:   string(interview.PhaseEvaluation),
		Message: "Evaluating your overall performance...",
	}})

	history := m.session.Exchanges()
	final := RunningAverage(history)

	m.session.SetPhase(interview.PhaseFeedback)
	m.emit(Event{Type: EventPhaseUpdate, Data: PhaseUpdateData{
		Phase:   string(interview.PhaseFeedback),
		Message: "Generating your personalized feedback report...",
	}})

	profile := m.session.Profile()
	draft := m.pipeline.Feedback(ctx, profile, m.session.Role(), history, final)

	report := &interview.FeedbackReport{
		Report:         draft.Report,
		Recommendation: normalizeRecommendation(draft.Recommendation, final, m.policy),
		SkillRoadmap:   draft.SkillRoadmap,
		FinalScores:    final,
	}
	m.session.MarkEnded(time.Now().UTC(), report)
	m.session.SetPhase(interview.PhaseCompleted)
	metrics.SessionsCompleted.Inc()

	if m.session.MemoryOptIn() && m.archiver != nil {
		archiveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := m.archiver.SaveTranscript(archiveCtx, m.session); err != nil {
			log.Printf("[machine] transcript archive failed for session=%s: %v", m.session.ID, err)
		}
		cancel()
	}

	// The terminal feedback event is always the last one on the channel.
	m.emit(Event{Type: EventFeedback, Data: FeedbackData{
		Report:         report.Report,
		Recommendation: string(report.Recommendation),
		SkillRoadmap:   report.SkillRoadmap,
		FinalScores:    toDimensionScores(final),
		Phase:          string(interview.PhaseCompleted),
	}})
	m.closeChannel(CloseNormal)
}

// Abort forces the session into the aborted phase after an unrecoverable
// fault, emits one error event, closes the channel and retires the session.
func (m *Machine) Abort(message string) {
	m.timer.Stop()

	m.pipeline.Acquire()
	defer m.pipeline.Release()

	if m.ended {
		return
	}
	m.ended = true

	m.session.SetPhase(interview.PhaseAborted)
	m.session.MarkEnded(time.Now().UTC(), nil)
	metrics.SessionsAborted.Inc()

	m.emitError(message, CodeInternal)
	m.closeChannel(CloseInternalError)

	if m.retire != nil {
		m.retire()
	}
}

func (m *Machine) onTick(remaining time.Duration) {
	if m.session.Phase().Settling() {
		return
	}
	m.emit(Event{Type: EventTimeRemaining, Data: TimeRemainingData{
		Seconds:   int(remaining.Seconds()),
		Formatted: FormatClock(remaining),
	}})
}

// onDeadline forces the end-of-interview transition unless the session is
// already evaluating or finished. If a command holds the token the expiry is
// picked up by that command's own end-condition check instead.
func (m *Machine) onDeadline() {
	if !m.pipeline.TryAcquire() {
		return
	}
	defer m.pipeline.Release()

	if m.ended {
		return
	}
	phase := m.session.Phase()
	if phase.Settling() || phase == interview.PhaseSetup {
		return
	}

	log.Printf("[machine] time budget exhausted for session=%s, forcing evaluation", m.session.ID)
	m.endInterview(context.Background())
}

func (m *Machine) statusData() StatusData {
	return StatusData{
		SessionID:      m.session.ID,
		Phase:          string(m.session.Phase()),
		QuestionsAsked: m.questionCount,
		MaxQuestions:   m.session.Settings.MaxQuestions,
		TimeRemaining:  m.remainingSeconds(),
		IsTimeUp:       m.timer.Expired(),
		ShouldEnd:      m.shouldEnd(),
		CurrentScores:  toDimensionScores(m.session.Scores()),
	}
}

func (m *Machine) remainingSeconds() int {
	return int(m.timer.Remaining().Seconds())
}

func (m *Machine) emit(evt Event) {
	m.emitterMu.RLock()
	e := m.emitter
	m.emitterMu.RUnlock()
	if e != nil {
		e.Emit(evt)
	}
}

func (m *Machine) emitError(message, code string) {
	m.emit(Event{Type: EventError, Data: ErrorData{Message: message, Code: code}})
}

func (m *Machine) closeChannel(code int) {
	m.emitterMu.RLock()
	e := m.emitter
	m.emitterMu.RUnlock()
	if e != nil {
		e.Close(code)
	}
}

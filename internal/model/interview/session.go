package interview

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Settings are the per-session budgets fixed at creation time.
type Settings struct {
	Duration     time.Duration
	MaxQuestions int
	MaxFollowUps int
}

// Session is the root aggregate for one interview. Intake handlers seed it
// while the phase is still setup; once live it is mutated only by the state
// machine goroutine, so the mutex guards the handful of fields that other
// goroutines read (status snapshots) or flip (voice, memory opt-in).
type Session struct {
	ID       string
	Settings Settings

	mu             sync.RWMutex
	role           string
	resumeText     string
	jobDescription string
	profile        *CandidateProfile
	status         string
	phase          Phase
	startedAt      time.Time
	endedAt        time.Time
	exchanges      []Exchange
	scores         RunningScore
	voiceEnabled   bool
	memoryOptIn    bool
	report         *FeedbackReport
	createdAt      time.Time
}

// NewSession provisions an empty session in the setup phase.
func NewSession(settings Settings) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Settings:  settings,
		status:    "created",
		phase:     PhaseSetup,
		createdAt: time.Now().UTC(),
	}
}

func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *Session) SetPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

func (s *Session) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// MarkStarted stamps the start time and flips the status to active.
func (s *Session) MarkStarted(at time.Time) {
	s.mu.Lock()
	s.startedAt = at
	s.status = "active"
	s.mu.Unlock()
}

// MarkEnded records the terminal outcome. A nil report marks a failure.
func (s *Session) MarkEnded(at time.Time, report *FeedbackReport) {
	s.mu.Lock()
	s.endedAt = at
	s.report = report
	if report != nil {
		s.status = "completed"
	} else {
		s.status = "cancelled"
	}
	s.mu.Unlock()
}

func (s *Session) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

func (s *Session) EndedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endedAt
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) Report() *FeedbackReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// SetResume stores the raw resume text supplied at intake.
func (s *Session) SetResume(text string) {
	s.mu.Lock()
	s.resumeText = text
	s.mu.Unlock()
}

// SetJob stores the job description and target role supplied at intake.
func (s *Session) SetJob(description, role string) {
	s.mu.Lock()
	s.jobDescription = description
	s.role = role
	s.mu.Unlock()
}

// Intake returns the seeded inputs for the profile-analysis capability.
func (s *Session) Intake() (resume, jobDescription, role string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resumeText, s.jobDescription, s.role
}

// IntakeComplete reports whether both resume and job description are present,
// the precondition for attaching a live connection.
func (s *Session) IntakeComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resumeText != "" && s.jobDescription != ""
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.role == "" {
		return "Software Engineer"
	}
	return s.role
}

// SetProfile records the analysis result. The first write wins; the profile
// is immutable once produced.
func (s *Session) SetProfile(p *CandidateProfile) {
	s.mu.Lock()
	if s.profile == nil {
		s.profile = p
	}
	s.mu.Unlock()
}

func (s *Session) Profile() *CandidateProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// AppendExchange stores a scored exchange and the recomputed running average.
func (s *Session) AppendExchange(e Exchange, running RunningScore) {
	s.mu.Lock()
	s.exchanges = append(s.exchanges, e)
	s.scores = running
	s.mu.Unlock()
}

func (s *Session) Exchanges() []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

func (s *Session) Scores() RunningScore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores
}

func (s *Session) SetVoiceEnabled(enabled bool) {
	s.mu.Lock()
	s.voiceEnabled = enabled
	s.mu.Unlock()
}

func (s *Session) VoiceEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voiceEnabled
}

func (s *Session) SetMemoryOptIn(optIn bool) {
	s.mu.Lock()
	s.memoryOptIn = optIn
	s.mu.Unlock()
}

func (s *Session) MemoryOptIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memoryOptIn
}

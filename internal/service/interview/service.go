package interview

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hireloop/backend/internal/config"
	"github.com/hireloop/backend/internal/model/interview"
)

// Service owns the session registry and the live machine per session. Each
// session is an independent unit of concurrent work; the only shared state
// is the registry index and the machines map, both behind short critical
// sections.
type Service struct {
	registry *interview.Registry
	caps     Capabilities
	cfg      config.InterviewConfig
	policy   RecommendationPolicy
	archiver Archiver

	mu       sync.Mutex
	machines map[string]*Machine
}

// NewService wires the orchestrator. caps may be nil when the AI backend is
// not configured; sessions can then be seeded but not started. archiver may
// be nil.
func NewService(registry *interview.Registry, caps Capabilities, cfg config.InterviewConfig, archiver Archiver) *Service {
	return &Service{
		registry: registry,
		caps:     caps,
		cfg:      cfg,
		policy:   CombinedMeanPolicy{},
		archiver: archiver,
		machines: make(map[string]*Machine),
	}
}

// CreateSession provisions a new session in the setup phase and registers it.
func (s *Service) CreateSession() *interview.Session {
	session := interview.NewSession(interview.Settings{
		Duration:     s.cfg.Duration,
		MaxQuestions: s.cfg.MaxQuestions,
		MaxFollowUps: s.cfg.MaxFollowUps,
	})
	s.registry.Insert(session)
	return session
}

// GetSession looks up a live session.
func (s *Service) GetSession(id string) (*interview.Session, error) {
	return s.registry.Lookup(id)
}

// AttachResume stores resume text and runs profile analysis eagerly once both
// intake inputs are present. Analysis failure here is tolerated; the start
// command retries it.
func (s *Service) AttachResume(ctx context.Context, session *interview.Session, resumeText string) {
	session.SetResume(resumeText)
	s.maybeAnalyze(ctx, session)
}

// AttachJob stores the job description and role, triggering eager analysis
// when the resume is already present.
func (s *Service) AttachJob(ctx context.Context, session *interview.Session, jobDescription, role string) {
	session.SetJob(jobDescription, role)
	s.maybeAnalyze(ctx, session)
}

func (s *Service) maybeAnalyze(ctx context.Context, session *interview.Session) {
	if s.caps == nil || session.Profile() != nil || !session.IntakeComplete() {
		return
	}

	resume, jobDescription, role := session.Intake()
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CapabilityTimeout)
	defer cancel()

	profile, err := s.caps.AnalyzeProfile(callCtx, resume, jobDescription, role)
	if err != nil {
		log.Printf("[interview] eager profile analysis failed for session=%s, deferring to start: %v", session.ID, err)
		return
	}
	session.SetProfile(profile)
}

// Machine returns the session's state machine, creating it on first use and
// rebinding the emitter on reconnects.
func (s *Service) Machine(session *interview.Session, emitter Emitter) *Machine {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[session.ID]
	if !ok {
		pipeline := NewPipeline(s.caps, s.cfg.CapabilityTimeout, s.policy)
		timer := NewTimer(session.Settings.Duration, s.cfg.TickInterval)
		m = NewMachine(session, pipeline, timer, s.policy, s.archiver)
		m.retire = func() { s.Retire(session.ID) }
		s.machines[session.ID] = m
	}
	m.SetEmitter(emitter)
	return m
}

// DetachEmitter unbinds a closed connection so a stale channel is never
// written to. The machine and session survive for reconnection.
func (s *Service) DetachEmitter(sessionID string, emitter Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[sessionID]
	if !ok {
		return
	}
	// Only detach if the machine still points at this connection; a
	// reconnect may already have rebound it.
	m.emitterMu.Lock()
	if m.emitter == emitter {
		m.emitter = nil
	}
	m.emitterMu.Unlock()
}

// Retire removes a session whose terminal phase has been observed by the
// client, stopping its timer and dropping it from the registry.
func (s *Service) Retire(sessionID string) {
	s.mu.Lock()
	m, ok := s.machines[sessionID]
	delete(s.machines, sessionID)
	s.mu.Unlock()

	if ok {
		m.timer.Stop()
	}
	s.registry.Remove(sessionID)
}

// reaperInterval is how often the idle sweep runs.
const reaperInterval = time.Minute

// StartReaper periodically retires idle sessions until ctx is cancelled.
func (s *Service) StartReaper(ctx context.Context) {
	ticker := time.NewTicker(reaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.RetireIdle(time.Now()); n > 0 {
				log.Printf("[interview] retired %d idle session(s)", n)
			}
		}
	}
}

// RetireIdle sweeps the registry and retires sessions nobody will come back
// for: finished sessions whose client never reconnected within the idle
// timeout, and seeded sessions that were never started. A session with a
// live connection is never touched; a started, unfinished session is left to
// its timer, which bounds it and makes it eligible on the next sweeps.
func (s *Service) RetireIdle(now time.Time) int {
	retired := 0
	for _, session := range s.registry.All() {
		if s.connected(session.ID) {
			continue
		}

		idle := false
		if ended := session.EndedAt(); !ended.IsZero() {
			idle = now.Sub(ended) >= s.cfg.IdleTimeout
		} else if session.StartedAt().IsZero() {
			idle = now.Sub(session.CreatedAt()) >= s.cfg.IdleTimeout
		}

		if idle {
			s.Retire(session.ID)
			retired++
		}
	}
	return retired
}

func (s *Service) connected(sessionID string) bool {
	s.mu.Lock()
	m, ok := s.machines[sessionID]
	s.mu.Unlock()
	if !ok {
		return false
	}

	m.emitterMu.RLock()
	defer m.emitterMu.RUnlock()
	return m.emitter != nil
}

// Enabled reports whether the reasoning capabilities are configured.
func (s *Service) Enabled() bool {
	return s.caps != nil
}

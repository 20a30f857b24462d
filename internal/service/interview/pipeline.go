package interview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hireloop/backend/internal/metrics"
	"github.com/hireloop/backend/internal/model/interview"
)

// ErrConflict signals that a command arrived while another was still being
// processed for the same session.
var ErrConflict = errors.New("another command is already in flight for this session")

// Pipeline sequences external capability calls for one session. It enforces
// single-flight execution through a one-slot token, bounds every call with
// the configured timeout, and translates failures into defined fallbacks so
// the interview never stalls on a slow or broken capability.
type Pipeline struct {
	caps    Capabilities
	timeout time.Duration
	policy  RecommendationPolicy
	flight  chan struct{}
}

// NewPipeline builds a per-session coordinator.
func NewPipeline(caps Capabilities, timeout time.Duration, policy RecommendationPolicy) *Pipeline {
	return &Pipeline{
		caps:    caps,
		timeout: timeout,
		policy:  policy,
		flight:  make(chan struct{}, 1),
	}
}

// TryAcquire claims the session's execution token without blocking.
func (p *Pipeline) TryAcquire() bool {
	select {
	case p.flight <- struct{}{}:
		return true
	default:
		return false
	}
}

// Acquire blocks until the session's execution token is free. Used by abort
// handling, which must win the token eventually.
func (p *Pipeline) Acquire() {
	p.flight <- struct{}{}
}

// Release returns the execution token.
func (p *Pipeline) Release() {
	select {
	case <-p.flight:
	default:
	}
}

// AnalyzeProfile is load-bearing: failures surface as retryable errors and
// the session stays in setup. This is the first capability any session calls,
// so it also guards the unconfigured-backend case.
func (p *Pipeline) AnalyzeProfile(ctx context.Context, resumeText, jobDescription, role string) (*interview.CandidateProfile, error) {
	if p.caps == nil {
		return nil, errors.New("profile analysis unavailable: no reasoning backend configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	profile, err := observeCall("profile", func() (*interview.CandidateProfile, error) {
		return p.caps.AnalyzeProfile(callCtx, resumeText, jobDescription, role)
	})
	if err != nil {
		return nil, fmt.Errorf("profile analysis unavailable: %w", err)
	}
	return profile, nil
}

// NextQuestion falls back to a generic question on failure and asks the
// capability once more if it returns a question already asked.
func (p *Pipeline) NextQuestion(ctx context.Context, profile *interview.CandidateProfile, role string, asked []string) *interview.Question {
	q, err := p.generateOnce(ctx, profile, role, asked)
	if err != nil {
		metrics.CapabilityFallbacks.WithLabelValues("question").Inc()
		log.Printf("[pipeline] question generation failed, using fallback: %v", err)
		return fallbackQuestion()
	}

	if isDuplicate(q.Question, asked) {
		log.Printf("[pipeline] duplicate question returned, requesting once more")
		retry, err := p.generateOnce(ctx, profile, role, asked)
		if err == nil && !isDuplicate(retry.Question, asked) {
			return retry
		}
		// Accept the duplicate rather than loop.
	}
	return q
}

func (p *Pipeline) generateOnce(ctx context.Context, profile *interview.CandidateProfile, role string, asked []string) (*interview.Question, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return observeCall("question", func() (*interview.Question, error) {
		return p.caps.GenerateQuestion(callCtx, profile, role, asked)
	})
}

// FollowUpDecision fails open: any error means "no follow-up needed".
func (p *Pipeline) FollowUpDecision(ctx context.Context, question, answer string, seniority interview.Seniority, followUpCount int) *interview.FollowUpDecision {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	decision, err := observeCall("followup", func() (*interview.FollowUpDecision, error) {
		return p.caps.DetectFollowUp(callCtx, question, answer, seniority, followUpCount)
	})
	if err != nil {
		metrics.CapabilityFallbacks.WithLabelValues("followup").Inc()
		log.Printf("[pipeline] follow-up detection failed, proceeding without one: %v", err)
		return &interview.FollowUpDecision{Needed: false, Reason: "Proceeding to next question"}
	}
	return decision
}

// EvaluateAnswer retries once, then falls back to a neutral score with a
// flagged note so the interview can continue.
func (p *Pipeline) EvaluateAnswer(ctx context.Context, question, answer, topic string, seniority interview.Seniority) *interview.ScoreSample {
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		sample, err := observeCall("evaluation", func() (*interview.ScoreSample, error) {
			return p.caps.Evaluate(callCtx, question, answer, topic, seniority)
		})
		cancel()
		if err == nil {
			return sample
		}
		log.Printf("[pipeline] evaluation attempt %d failed: %v", attempt+1, err)
		if ctx.Err() != nil {
			break
		}
	}

	metrics.CapabilityFallbacks.WithLabelValues("evaluation").Inc()
	return &interview.ScoreSample{
		Technical:     5,
		Design:        5,
		Communication: 5,
		Feedback:      "Automatic evaluation was unavailable for this answer; a neutral score was recorded.",
	}
}

// Feedback falls back to a minimal templated report rather than leaving the
// session unterminated.
func (p *Pipeline) Feedback(ctx context.Context, profile *interview.CandidateProfile, role string, history []interview.Exchange, final interview.RunningScore) *interview.FeedbackDraft {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	draft, err := observeCall("feedback", func() (*interview.FeedbackDraft, error) {
		return p.caps.SynthesizeFeedback(callCtx, profile, role, history, final)
	})
	if err != nil {
		metrics.CapabilityFallbacks.WithLabelValues("feedback").Inc()
		log.Printf("[pipeline] feedback synthesis failed, using templated report: %v", err)
		return p.fallbackReport(profile, role, history, final)
	}
	return draft
}

// observeCall wraps one capability call with duration and failure metrics.
func observeCall[T any](capability string, call func() (T, error)) (T, error) {
	start := time.Now()
	result, err := call()
	metrics.CapabilityDuration.WithLabelValues(capability).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CapabilityFailures.WithLabelValues(capability).Inc()
	}
	return result, err
}

func fallbackQuestion() *interview.Question {
	return &interview.Question{
		Question:    "Tell me about a challenging technical problem you've solved recently.",
		Difficulty:  "medium",
		Topic:       "Problem Solving",
		Explanation: "This assesses your problem-solving approach and technical depth.",
	}
}

func isDuplicate(question string, asked []string) bool {
	for _, prev := range asked {
		if prev == question {
			return true
		}
	}
	return false
}

func (p *Pipeline) fallbackReport(profile *interview.CandidateProfile, role string, history []interview.Exchange, final interview.RunningScore) *interview.FeedbackDraft {
	recommendation := p.policy.Recommend(final)

	roadmap := profile.Gaps
	if len(roadmap) == 0 {
		roadmap = []string{"Review core technical concepts"}
	}

	report := fmt.Sprintf(`## Interview Feedback Report

### Overall Assessment
You completed a %d-question interview for the %s position.

### Scores
- Technical Understanding: %.1f/10
- System Design: %.1f/10
- Communication: %.1f/10

### Recommendation: %s

Thank you for participating in this mock interview. Continue practicing to improve your skills.`,
		len(history), role, final.Technical, final.Design, final.Communication, recommendation)

	return &interview.FeedbackDraft{
		Report:         report,
		Recommendation: string(recommendation),
		SkillRoadmap:   roadmap,
	}
}

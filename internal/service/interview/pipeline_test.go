package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/backend/internal/model/interview"
)

// stubCaps implements Capabilities with overridable function fields. Unset
// fields return deterministic canned results.
type stubCaps struct {
	analyze   func(ctx context.Context, resumeText, jobDescription, role string) (*interview.CandidateProfile, error)
	generate  func(ctx context.Context, profile *interview.CandidateProfile, role string, asked []string) (*interview.Question, error)
	followUp  func(ctx context.Context, question, answer string, seniority interview.Seniority, followUpCount int) (*interview.FollowUpDecision, error)
	evaluate  func(ctx context.Context, question, answer, topic string, seniority interview.Seniority) (*interview.ScoreSample, error)
	feedback  func(ctx context.Context, profile *interview.CandidateProfile, role string, history []interview.Exchange, final interview.RunningScore) (*interview.FeedbackDraft, error)
	questions atomic.Int64
}

func (s *stubCaps) AnalyzeProfile(ctx context.Context, resumeText, jobDescription, role string) (*interview.CandidateProfile, error) {
	if s.analyze != nil {
		return s.analyze(ctx, resumeText, jobDescription, role)
	}
	return &interview.CandidateProfile{
		Seniority:  interview.SeniorityMid,
		Strengths:  []string{"Distributed systems"},
		Gaps:       []string{"Frontend frameworks"},
		FocusAreas: []string{"System Design", "Databases"},
	}, nil
}

func (s *stubCaps) GenerateQuestion(ctx context.Context, profile *interview.CandidateProfile, role string, asked []string) (*interview.Question, error) {
	if s.generate != nil {
		return s.generate(ctx, profile, role, asked)
	}
	n := s.questions.Add(1)
	return &interview.Question{
		Question:    fmt.Sprintf("Question %d: explain the CAP theorem.", n),
		Difficulty:  "medium",
		Topic:       "Distributed Systems",
		Explanation: "Tests understanding of consistency trade-offs.",
	}, nil
}

func (s *stubCaps) DetectFollowUp(ctx context.Context, question, answer string, seniority interview.Seniority, followUpCount int) (*interview.FollowUpDecision, error) {
	if s.followUp != nil {
		return s.followUp(ctx, question, answer, seniority, followUpCount)
	}
	return &interview.FollowUpDecision{Needed: false, Reason: "Answer was complete"}, nil
}

func (s *stubCaps) Evaluate(ctx context.Context, question, answer, topic string, seniority interview.Seniority) (*interview.ScoreSample, error) {
	if s.evaluate != nil {
		return s.evaluate(ctx, question, answer, topic, seniority)
	}
	return &interview.ScoreSample{
		Technical:     8,
		Design:        7,
		Communication: 9,
		Feedback:      "Solid answer with good trade-off analysis.",
		Strengths:     []string{"Clear reasoning"},
		Improvements:  []string{"Mention real systems"},
	}, nil
}

func (s *stubCaps) SynthesizeFeedback(ctx context.Context, profile *interview.CandidateProfile, role string, history []interview.Exchange, final interview.RunningScore) (*interview.FeedbackDraft, error) {
	if s.feedback != nil {
		return s.feedback(ctx, profile, role, history, final)
	}
	return &interview.FeedbackDraft{
		Report:         "## Interview Feedback Report\n\nStrong performance overall.",
		Recommendation: "Hire",
		SkillRoadmap:   []string{"Practice system design interviews"},
	}, nil
}

func newTestPipeline(caps Capabilities) *Pipeline {
	return NewPipeline(caps, time.Second, CombinedMeanPolicy{})
}

func TestPipelineSingleFlight(t *testing.T) {
	p := newTestPipeline(&stubCaps{})

	require.True(t, p.TryAcquire())
	assert.False(t, p.TryAcquire(), "token must be exclusive")

	p.Release()
	assert.True(t, p.TryAcquire())
	p.Release()
}

func TestPipelineAnalyzeProfileError(t *testing.T) {
	caps := &stubCaps{
		analyze: func(context.Context, string, string, string) (*interview.CandidateProfile, error) {
			return nil, errors.New("model overloaded")
		},
	}
	p := newTestPipeline(caps)

	_, err := p.AnalyzeProfile(context.Background(), "resume", "jd", "role")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile analysis unavailable")
}

func TestPipelineAnalyzeProfileWithoutBackend(t *testing.T) {
	p := newTestPipeline(nil)

	_, err := p.AnalyzeProfile(context.Background(), "resume", "jd", "role")
	require.Error(t, err)
}

func TestPipelineNextQuestionFallback(t *testing.T) {
	caps := &stubCaps{
		generate: func(context.Context, *interview.CandidateProfile, string, []string) (*interview.Question, error) {
			return nil, errors.New("timeout")
		},
	}
	p := newTestPipeline(caps)

	q := p.NextQuestion(context.Background(), &interview.CandidateProfile{}, "Backend Engineer", nil)
	require.NotNil(t, q)
	assert.Contains(t, q.Question, "challenging technical problem")
	assert.Equal(t, "medium", q.Difficulty)
}

func TestPipelineNextQuestionRetriesDuplicates(t *testing.T) {
	asked := []string{"What is eventual consistency?"}
	var calls atomic.Int64
	caps := &stubCaps{
		generate: func(context.Context, *interview.CandidateProfile, string, []string) (*interview.Question, error) {
			if calls.Add(1) == 1 {
				return &interview.Question{Question: "What is eventual consistency?"}, nil
			}
			return &interview.Question{Question: "How does Raft elect a leader?"}, nil
		},
	}
	p := newTestPipeline(caps)

	q := p.NextQuestion(context.Background(), &interview.CandidateProfile{}, "Backend Engineer", asked)
	assert.Equal(t, "How does Raft elect a leader?", q.Question)
	assert.Equal(t, int64(2), calls.Load())
}

func TestPipelineNextQuestionAcceptsPersistentDuplicate(t *testing.T) {
	asked := []string{"What is eventual consistency?"}
	caps := &stubCaps{
		generate: func(context.Context, *interview.CandidateProfile, string, []string) (*interview.Question, error) {
			return &interview.Question{Question: "What is eventual consistency?"}, nil
		},
	}
	p := newTestPipeline(caps)

	q := p.NextQuestion(context.Background(), &interview.CandidateProfile{}, "Backend Engineer", asked)
	assert.Equal(t, "What is eventual consistency?", q.Question)
}

func TestPipelineFollowUpFailsOpen(t *testing.T) {
	caps := &stubCaps{
		followUp: func(context.Context, string, string, interview.Seniority, int) (*interview.FollowUpDecision, error) {
			return nil, errors.New("timeout")
		},
	}
	p := newTestPipeline(caps)

	decision := p.FollowUpDecision(context.Background(), "q", "a", interview.SeniorityMid, 0)
	require.NotNil(t, decision)
	assert.False(t, decision.Needed)
}

func TestPipelineEvaluateRetriesThenFallsBack(t *testing.T) {
	var calls atomic.Int64
	caps := &stubCaps{
		evaluate: func(context.Context, string, string, string, interview.Seniority) (*interview.ScoreSample, error) {
			calls.Add(1)
			return nil, errors.New("bad json")
		},
	}
	p := newTestPipeline(caps)

	sample := p.EvaluateAnswer(context.Background(), "q", "a", "topic", interview.SeniorityMid)
	require.NotNil(t, sample)
	assert.Equal(t, int64(2), calls.Load())
	assert.Equal(t, 5.0, sample.Technical)
	assert.Equal(t, 5.0, sample.Design)
	assert.Equal(t, 5.0, sample.Communication)
	assert.NotEmpty(t, sample.Feedback)
}

func TestPipelineEvaluateSecondAttemptSucceeds(t *testing.T) {
	var calls atomic.Int64
	caps := &stubCaps{
		evaluate: func(context.Context, string, string, string, interview.Seniority) (*interview.ScoreSample, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("flaky")
			}
			return &interview.ScoreSample{Technical: 9, Design: 8, Communication: 7}, nil
		},
	}
	p := newTestPipeline(caps)

	sample := p.EvaluateAnswer(context.Background(), "q", "a", "topic", interview.SeniorityMid)
	assert.Equal(t, 9.0, sample.Technical)
}

func TestPipelineFeedbackFallbackReport(t *testing.T) {
	caps := &stubCaps{
		feedback: func(context.Context, *interview.CandidateProfile, string, []interview.Exchange, interview.RunningScore) (*interview.FeedbackDraft, error) {
			return nil, errors.New("timeout")
		},
	}
	p := newTestPipeline(caps)

	profile := &interview.CandidateProfile{Gaps: []string{"Kubernetes"}}
	final := interview.RunningScore{Technical: 8, Design: 7, Communication: 7}
	history := []interview.Exchange{scored(8, 7, 7)}

	draft := p.Feedback(context.Background(), profile, "Backend Engineer", history, final)
	require.NotNil(t, draft)
	assert.True(t, strings.Contains(draft.Report, "Backend Engineer"))
	assert.Equal(t, string(interview.RecommendHire), draft.Recommendation)
	assert.Equal(t, []string{"Kubernetes"}, draft.SkillRoadmap)
}

package interview

import (
	"context"

	"github.com/hireloop/backend/internal/model/interview"
)

// Capabilities is the contract for the five external reasoning steps. The
// agents package provides the production implementation; tests stub it.
type Capabilities interface {
	AnalyzeProfile(ctx context.Context, resumeText, jobDescription, role string) (*interview.CandidateProfile, error)
	GenerateQuestion(ctx context.Context, profile *interview.CandidateProfile, role string, asked []string) (*interview.Question, error)
	DetectFollowUp(ctx context.Context, question, answer string, seniority interview.Seniority, followUpCount int) (*interview.FollowUpDecision, error)
	Evaluate(ctx context.Context, question, answer, topic string, seniority interview.Seniority) (*interview.ScoreSample, error)
	SynthesizeFeedback(ctx context.Context, profile *interview.CandidateProfile, role string, history []interview.Exchange, final interview.RunningScore) (*interview.FeedbackDraft, error)
}

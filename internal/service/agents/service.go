package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/hireloop/backend/internal/config"
	"github.com/hireloop/backend/internal/model/interview"
)

// Service exposes the five interview reasoning capabilities, each backed by
// its own compiled prompt chain over a shared chat model.
type Service struct {
	chatModel  model.ChatModel
	profile    compose.Runnable[map[string]any, *schema.Message]
	question   compose.Runnable[map[string]any, *schema.Message]
	followUp   compose.Runnable[map[string]any, *schema.Message]
	evaluation compose.Runnable[map[string]any, *schema.Message]
	feedback   compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the capability chains against the configured Ark model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel)
}

// NewServiceWithModel builds the service around an existing chat model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	svc := &Service{chatModel: chatModel}

	chains := []struct {
		target *compose.Runnable[map[string]any, *schema.Message]
		name   string
		system string
		user   string
	}{
		{&svc.profile, "profile", profileSystemPrompt, profileUserPrompt},
		{&svc.question, "question", questionSystemPrompt, questionUserPrompt},
		{&svc.followUp, "followup", followUpSystemPrompt, followUpUserPrompt},
		{&svc.evaluation, "evaluation", evaluationSystemPrompt, evaluationUserPrompt},
		{&svc.feedback, "feedback", feedbackSystemPrompt, feedbackUserPrompt},
	}

	for _, c := range chains {
		runnable, err := compileChain(ctx, chatModel, c.system, c.user)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s chain: %w", c.name, err)
		}
		*c.target = runnable
	}

	return svc, nil
}

func compileChain(ctx context.Context, chatModel model.ChatModel, system, user string) (compose.Runnable[map[string]any, *schema.Message], error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	return chain.Compile(ctx)
}

// AnalyzeProfile derives seniority, strengths, gaps and focus areas from the
// resume and job description.
func (s *Service) AnalyzeProfile(ctx context.Context, resumeText, jobDescription, role string) (*interview.CandidateProfile, error) {
	payload := struct {
		Seniority  string   `json:"seniority"`
		Strengths  []string `json:"strengths"`
		Gaps       []string `json:"gaps"`
		FocusAreas []string `json:"focus_areas"`
	}{}

	err := s.invokeJSON(ctx, s.profile, map[string]any{
		"role":            role,
		"resume":          resumeText,
		"job_description": jobDescription,
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("profile analysis failed: %w", err)
	}

	return &interview.CandidateProfile{
		Seniority:  interview.ParseSeniority(strings.ToLower(strings.TrimSpace(payload.Seniority))),
		Strengths:  capList(payload.Strengths, 5),
		Gaps:       capList(payload.Gaps, 4),
		FocusAreas: capList(payload.FocusAreas, 5),
	}, nil
}

// GenerateQuestion produces the next question, avoiding the already-asked set.
func (s *Service) GenerateQuestion(ctx context.Context, profile *interview.CandidateProfile, role string, asked []string) (*interview.Question, error) {
	q := &interview.Question{}
	err := s.invokeJSON(ctx, s.question, map[string]any{
		"role":               role,
		"seniority":          string(profile.Seniority),
		"focus_areas":        joinList(profile.FocusAreas),
		"gaps":               joinList(profile.Gaps),
		"previous_questions": formatAsked(asked),
	}, q)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	if strings.TrimSpace(q.Question) == "" {
		return nil, fmt.Errorf("question generation returned an empty question")
	}
	if q.Difficulty == "" {
		q.Difficulty = "medium"
	}
	if q.Topic == "" {
		q.Topic = "General"
	}
	return q, nil
}

// DetectFollowUp decides whether the answer warrants one more probe.
func (s *Service) DetectFollowUp(ctx context.Context, question, answer string, seniority interview.Seniority, followUpCount int) (*interview.FollowUpDecision, error) {
	decision := &interview.FollowUpDecision{}
	err := s.invokeJSON(ctx, s.followUp, map[string]any{
		"question":       question,
		"answer":         answer,
		"seniority":      string(seniority),
		"followup_count": fmt.Sprintf("%d", followUpCount),
	}, decision)
	if err != nil {
		return nil, fmt.Errorf("follow-up detection failed: %w", err)
	}

	if decision.Needed && strings.TrimSpace(decision.Question) == "" {
		decision.Needed = false
	}
	if decision.Reason == "" {
		decision.Reason = "Exploring your understanding further"
	}
	return decision, nil
}

// Evaluate scores an answer on the three interview dimensions.
func (s *Service) Evaluate(ctx context.Context, question, answer, topic string, seniority interview.Seniority) (*interview.ScoreSample, error) {
	sample := &interview.ScoreSample{}
	err := s.invokeJSON(ctx, s.evaluation, map[string]any{
		"question":  question,
		"answer":    answer,
		"topic":     topic,
		"seniority": string(seniority),
	}, sample)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	sample.Technical = clampScore(sample.Technical)
	sample.Design = clampScore(sample.Design)
	sample.Communication = clampScore(sample.Communication)
	if sample.Feedback == "" {
		sample.Feedback = "Thank you for your response."
	}
	return sample, nil
}

// SynthesizeFeedback writes the terminal report over the full exchange history.
func (s *Service) SynthesizeFeedback(ctx context.Context, profile *interview.CandidateProfile, role string, history []interview.Exchange, final interview.RunningScore) (*interview.FeedbackDraft, error) {
	draft := &interview.FeedbackDraft{}
	err := s.invokeJSON(ctx, s.feedback, map[string]any{
		"role":           role,
		"seniority":      string(profile.Seniority),
		"question_count": fmt.Sprintf("%d", len(history)),
		"technical":      fmt.Sprintf("%.1f", final.Technical),
		"design":         fmt.Sprintf("%.1f", final.Design),
		"communication":  fmt.Sprintf("%.1f", final.Communication),
		"strengths":      joinList(profile.Strengths),
		"gaps":           joinList(profile.Gaps),
		"history":        formatHistory(history),
	}, draft)
	if err != nil {
		return nil, fmt.Errorf("feedback synthesis failed: %w", err)
	}

	if strings.TrimSpace(draft.Report) == "" {
		return nil, fmt.Errorf("feedback synthesis returned an empty report")
	}
	return draft, nil
}

// invokeJSON runs a chain and unmarshals the JSON object found in its output.
func (s *Service) invokeJSON(ctx context.Context, chain compose.Runnable[map[string]any, *schema.Message], input map[string]any, out any) error {
	msg, err := chain.Invoke(ctx, input)
	if err != nil {
		return err
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return fmt.Errorf("model returned empty content")
	}

	raw, err := extractJSONObject(msg.Content)
	if err != nil {
		log.Printf("[agents] unparseable model output (%d bytes): %v", len(msg.Content), err)
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

// extractJSONObject pulls the first JSON object out of model output that may
// be wrapped in prose or markdown fences.
func extractJSONObject(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("missing json object")
	}
	return trimmed[start : end+1], nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func joinList(items []string) string {
	if len(items) == 0 {
		return "none identified"
	}
	return strings.Join(items, ", ")
}

func formatAsked(asked []string) string {
	if len(asked) == 0 {
		return "None yet - this is the first question"
	}
	var builder strings.Builder
	for i, q := range asked {
		builder.WriteString("- ")
		builder.WriteString(q)
		if i < len(asked)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

func formatHistory(history []interview.Exchange) string {
	if len(history) == 0 {
		return "No questions were answered."
	}

	var builder strings.Builder
	for i, ex := range history {
		answer := ex.Answer
		if len(answer) > 200 {
			answer = answer[:200] + "..."
		}
		fmt.Fprintf(&builder, "Question %d: %s\nAnswer: %s\nScores: technical=%.1f design=%.1f communication=%.1f\n",
			i+1, ex.Question, answer, ex.Score.Technical, ex.Score.Design, ex.Score.Communication)
	}
	return builder.String()
}

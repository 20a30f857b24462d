package interview

import (
	"testing"
	"time"
)

func TestSessionIntakeComplete(t *testing.T) {
	session := NewSession(testSettings())

	if session.IntakeComplete() {
		t.Fatal("fresh session should not have complete intake")
	}

	session.SetResume("ten years of Go")
	if session.IntakeComplete() {
		t.Fatal("resume alone should not complete intake")
	}

	session.SetJob("build distributed systems", "Backend Engineer")
	if !session.IntakeComplete() {
		t.Fatal("expected intake to be complete")
	}

	resume, jobDescription, role := session.Intake()
	if resume != "ten years of Go" || jobDescription != "build distributed systems" || role != "Backend Engineer" {
		t.Fatalf("intake round-trip mismatch: %q %q %q", resume, jobDescription, role)
	}
}

func TestSessionRoleDefault(t *testing.T) {
	session := NewSession(testSettings())
	if got := session.Role(); got != "Software Engineer" {
		t.Fatalf("expected default role, got %q", got)
	}

	session.SetJob("jd", "SRE")
	if got := session.Role(); got != "SRE" {
		t.Fatalf("expected SRE, got %q", got)
	}
}

func TestSessionProfileFirstWriteWins(t *testing.T) {
	session := NewSession(testSettings())

	first := &CandidateProfile{Seniority: SenioritySenior}
	second := &CandidateProfile{Seniority: SeniorityJunior}
	session.SetProfile(first)
	session.SetProfile(second)

	if session.Profile() != first {
		t.Fatal("profile must be immutable after the first write")
	}
}

func TestSessionLifecycleStatus(t *testing.T) {
	session := NewSession(testSettings())
	if session.Status() != "created" {
		t.Fatalf("expected created, got %q", session.Status())
	}

	session.MarkStarted(time.Now().UTC())
	if session.Status() != "active" {
		t.Fatalf("expected active, got %q", session.Status())
	}

	session.MarkEnded(time.Now().UTC(), &FeedbackReport{Recommendation: RecommendHire})
	if session.Status() != "completed" {
		t.Fatalf("expected completed, got %q", session.Status())
	}
	if session.Report() == nil {
		t.Fatal("expected a stored report")
	}
	if session.CreatedAt().IsZero() {
		t.Fatal("expected a creation timestamp")
	}
	if session.EndedAt().IsZero() {
		t.Fatal("expected an end timestamp")
	}
}

func TestSessionMarkEndedWithoutReport(t *testing.T) {
	session := NewSession(testSettings())
	session.MarkStarted(time.Now().UTC())
	session.MarkEnded(time.Now().UTC(), nil)

	if session.Status() != "cancelled" {
		t.Fatalf("expected cancelled, got %q", session.Status())
	}
}

func TestSessionExchangesCopy(t *testing.T) {
	session := NewSession(testSettings())
	session.AppendExchange(Exchange{Question: "q1"}, RunningScore{Technical: 8})

	got := session.Exchanges()
	got[0].Question = "mutated"

	if session.Exchanges()[0].Question != "q1" {
		t.Fatal("Exchanges must return a copy")
	}
	if session.Scores().Technical != 8 {
		t.Fatalf("expected running score to be stored")
	}
}

func TestParseSeniority(t *testing.T) {
	cases := map[string]Seniority{
		"junior":  SeniorityJunior,
		"Senior":  SenioritySenior,
		" MID ":   SeniorityMid,
		"unknown": SeniorityMid,
		"":        SeniorityMid,
	}
	for raw, want := range cases {
		if got := ParseSeniority(raw); got != want {
			t.Errorf("ParseSeniority(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestPhasePredicates(t *testing.T) {
	if !PhaseCompleted.Terminal() || !PhaseAborted.Terminal() {
		t.Fatal("completed and aborted are terminal")
	}
	if PhaseQuestions.Terminal() {
		t.Fatal("questions is not terminal")
	}
	for _, p := range []Phase{PhaseEvaluation, PhaseFeedback, PhaseCompleted, PhaseAborted} {
		if !p.Settling() {
			t.Fatalf("%s should be settling", p)
		}
	}
	if PhaseFollowUp.Settling() {
		t.Fatal("followup is not settling")
	}
}

package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hireloop/backend/internal/config"
	"github.com/hireloop/backend/internal/model/interview"
	interviewService "github.com/hireloop/backend/internal/service/interview"
)

func newTestRouter() (*chi.Mux, *interviewService.Service) {
	cfg := config.InterviewConfig{
		Duration:          35 * time.Minute,
		MaxQuestions:      8,
		MaxFollowUps:      2,
		TickInterval:      30 * time.Second,
		CapabilityTimeout: time.Second,
	}
	interviews := interviewService.NewService(interview.NewRegistry(), nil, cfg, nil)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		New(interviews).RegisterRoutes(api)
	})
	return r, interviews
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/session/start", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var payload struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
		Phase     string `json:"phase"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if payload.Phase != "setup" {
		t.Fatalf("expected setup phase, got %q", payload.Phase)
	}
	return payload.SessionID
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleStartAndGet(t *testing.T) {
	router, _ := newTestRouter()
	sessionID := createSession(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/"+sessionID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		SessionID      string `json:"session_id"`
		IntakeComplete bool   `json:"intake_complete"`
		Role           string `json:"role"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.SessionID != sessionID {
		t.Fatalf("session id mismatch: %q", payload.SessionID)
	}
	if payload.IntakeComplete {
		t.Fatal("fresh session must not have complete intake")
	}
	if payload.Role != "Software Engineer" {
		t.Fatalf("expected default role, got %q", payload.Role)
	}
}

func TestHandleGetUnknownSession(t *testing.T) {
	router, _ := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestIntakeFlow(t *testing.T) {
	router, interviews := newTestRouter()
	sessionID := createSession(t, router)

	rec := postJSON(t, router, "/api/session/"+sessionID+"/resume", map[string]string{
		"resume_text": "Five years of Go.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = postJSON(t, router, "/api/session/"+sessionID+"/jd", map[string]string{
		"job_description": "Own the realtime platform.",
		"role":            "Platform Engineer",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		IntakeComplete bool `json:"intake_complete"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.IntakeComplete {
		t.Fatal("expected intake to be complete after resume and jd")
	}

	session, err := interviews.GetSession(sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Role() != "Platform Engineer" {
		t.Fatalf("expected Platform Engineer, got %q", session.Role())
	}
}

func TestIntakeValidation(t *testing.T) {
	router, _ := newTestRouter()
	sessionID := createSession(t, router)

	rec := postJSON(t, router, "/api/session/"+sessionID+"/resume", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty resume, got %d", rec.Code)
	}

	rec = postJSON(t, router, "/api/session/"+sessionID+"/jd", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty jd, got %d", rec.Code)
	}
}

func TestMemoryOptIn(t *testing.T) {
	router, interviews := newTestRouter()
	sessionID := createSession(t, router)

	rec := postJSON(t, router, "/api/session/"+sessionID+"/memory", map[string]bool{"opt_in": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	session, err := interviews.GetSession(sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.MemoryOptIn() {
		t.Fatal("expected memory opt-in to be recorded")
	}
}

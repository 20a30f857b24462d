package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hireloop/backend/internal/model/interview"
	interviewService "github.com/hireloop/backend/internal/service/interview"
	"github.com/hireloop/backend/pkg/utils"
)

// Handler exposes the session seeding endpoints. Interview flow itself runs
// over the websocket channel; these routes only create sessions and attach
// intake material before the candidate connects.
type Handler struct {
	interviews *interviewService.Service
}

// New creates a session handler.
func New(interviews *interviewService.Service) *Handler {
	return &Handler{interviews: interviews}
}

// RegisterRoutes registers session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session/start", h.handleStart)
	r.Get("/session/{sessionID}", h.handleGet)
	r.Post("/session/{sessionID}/resume", h.handleResume)
	r.Post("/session/{sessionID}/jd", h.handleJobDescription)
	r.Post("/session/{sessionID}/memory", h.handleMemory)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	session := h.interviews.CreateSession()
	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"session_id": session.ID,
		"status":     session.Status(),
		"phase":      string(session.Phase()),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	resume, jobDescription, _ := session.Intake()
	payload := map[string]any{
		"session_id":      session.ID,
		"status":          session.Status(),
		"phase":           string(session.Phase()),
		"role":            session.Role(),
		"has_resume":      resume != "",
		"has_jd":          jobDescription != "",
		"intake_complete": session.IntakeComplete(),
		"voice_enabled":   session.VoiceEnabled(),
		"memory_opt_in":   session.MemoryOptIn(),
		"questions_asked": len(session.Exchanges()),
	}
	if profile := session.Profile(); profile != nil {
		payload["seniority"] = string(profile.Seniority)
	}
	utils.RespondJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload struct {
		ResumeText string `json:"resume_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ResumeText == "" {
		utils.RespondError(w, http.StatusBadRequest, "resume_text is required")
		return
	}

	h.interviews.AttachResume(r.Context(), session, payload.ResumeText)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":          "resume attached",
		"intake_complete": session.IntakeComplete(),
	})
}

func (h *Handler) handleJobDescription(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload struct {
		JobDescription string `json:"job_description"`
		Role           string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.JobDescription == "" {
		utils.RespondError(w, http.StatusBadRequest, "job_description is required")
		return
	}

	h.interviews.AttachJob(r.Context(), session, payload.JobDescription, payload.Role)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":          "job description attached",
		"intake_complete": session.IntakeComplete(),
	})
}

func (h *Handler) handleMemory(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload struct {
		OptIn bool `json:"opt_in"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session.SetMemoryOptIn(payload.OptIn)
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"memory_opt_in": payload.OptIn})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*interview.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.interviews.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
		} else {
			utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		}
		return nil, false
	}
	return session, true
}

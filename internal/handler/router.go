package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hireloop/backend/internal/config"
	"github.com/hireloop/backend/internal/handler/session"
	"github.com/hireloop/backend/internal/handler/ws"
	middlewarePkg "github.com/hireloop/backend/internal/middleware"
	interviewService "github.com/hireloop/backend/internal/service/interview"
	"github.com/hireloop/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(interviews *interviewService.Service, cors config.CORSConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cors))

	sessionHandler := session.New(interviews)
	wsHandler := ws.New(interviews, cors)

	r.Route("/api", func(api chi.Router) {
		sessionHandler.RegisterRoutes(api)
	})

	wsHandler.RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"ai_enabled": interviews.Enabled(),
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

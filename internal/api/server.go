package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/todmy/movement-tracker/internal/auth"
	"github.com/todmy/movement-tracker/internal/pipeline"
	"github.com/todmy/movement-tracker/internal/storage"
)

type Server struct {
	router *chi.Mux

	pipeline          *pipeline.Pipeline
	stateRepo         storage.PersonStateRepository
	eventRepo         storage.MovementEventRepository
	contradictionRepo storage.ContradictionRepository

	authService  auth.Service
	authHandlers *auth.Handlers

	maxConcurrent int
}

// Deps carries everything the HTTP layer needs
type Deps struct {
	Pipeline          *pipeline.Pipeline
	StateRepo         storage.PersonStateRepository
	EventRepo         storage.MovementEventRepository
	ContradictionRepo storage.ContradictionRepository
	AuthService       auth.Service
	MaxConcurrent     int
}

func NewServer(deps Deps) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	maxConcurrent := deps.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	s := &Server{
		router:            r,
		pipeline:          deps.Pipeline,
		stateRepo:         deps.StateRepo,
		eventRepo:         deps.EventRepo,
		contradictionRepo: deps.ContradictionRepo,
		authService:       deps.AuthService,
		authHandlers:      auth.NewHandlers(deps.AuthService),
		maxConcurrent:     maxConcurrent,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", s.authHandlers.Register)
		r.Post("/auth/login", s.authHandlers.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			r.Get("/auth/me", s.authHandlers.Me)

			// Observation ingest
			r.Post("/observations", s.handleProcessBatch)
			r.Route("/people/{personID}", func(r chi.Router) {
				r.Post("/observations", s.handleProcessObservation)
				r.Get("/events", s.handleGetPersonEvents)
				r.Get("/state", s.handleGetPersonState)
			})

			// Detection results
			r.Get("/events/recent", s.handleGetRecentEvents)
			r.Get("/contradictions", s.handleGetContradictions)
			r.Get("/stats/confidence", s.handleGetConfidenceStats)
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

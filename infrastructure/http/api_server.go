package http

import (
	"net/http"

	"tradeboard/infrastructure/audit"
	"tradeboard/infrastructure/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// APIServer serves the trade collection as JSON over /data.
type APIServer struct {
	lifecycle
	router *chi.Mux

	DB    *sqlite.DB
	Audit *audit.Service
}

// NewAPIServer creates the trade API http server. Any origin may call it.
func NewAPIServer(addr string, db *sqlite.DB, auditSvc *audit.Service) *APIServer {
	s := &APIServer{
		lifecycle: newLifecycle(addr),
		router:    chi.NewRouter(),
		DB:        db,
		Audit:     auditSvc,
	}

	useCommonMiddleware(s.router)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/health", healthHandler)
	s.RegisterDataRoutes(s.router)

	s.server.Handler = s.router
	return s
}

func (s *APIServer) Handler() http.Handler { return s.router }

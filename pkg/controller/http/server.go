package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/usecase"
	"github.com/secmon-lab/riskaccept/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	users  interfaces.UserRepository
}

type Options func(*Server)

func New(uc *usecase.UseCases, users interfaces.UserRepository, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		users:  users,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(actorMiddleware(s.users))

		r.Route("/acceptances", func(r chi.Router) {
			r.Post("/", s.handleCreateAcceptance)
			r.Get("/", s.handleListAcceptances)
			r.Get("/{acceptanceID}", s.handleGetAcceptance)
			r.Put("/{acceptanceID}", s.handleUpdateContent)
			r.Post("/{acceptanceID}/transition", s.handleTransition)
			r.Post("/{acceptanceID}/comments", s.handleAddComment)
		})

		r.Post("/sweep", s.handleSweep)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck // header already committed
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

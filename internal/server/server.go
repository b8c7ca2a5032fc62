// Package server provides the HTTP server and routing.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/readiness/internal/di"
	explanationhandlers "github.com/aristath/readiness/internal/modules/explanations/handlers"
	metricshandlers "github.com/aristath/readiness/internal/modules/metrics/handlers"
	"github.com/aristath/readiness/internal/telemetry"
)

// requestTimeout bounds a request end to end. It must exceed the remote
// query budget so a slow query surfaces as a TimeoutError, not a 503.
const requestTimeout = 90 * time.Second

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	DevMode   bool
	Container *di.Container // DI container with all services
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	container      *di.Container
	telemetry      *telemetry.Metrics
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		port:      cfg.Port,
		container: cfg.Container,
		telemetry: cfg.Container.Telemetry,
	}

	var cacheDB DBStatter
	if cfg.Container.CacheDB != nil {
		cacheDB = cfg.Container.CacheDB
	}
	var clientData EntryCounter
	if cfg.Container.ClientDataRepo != nil {
		clientData = cfg.Container.ClientDataRepo
	}
	s.systemHandlers = NewSystemHandlers(
		cfg.Container.MetricsService,
		cacheDB,
		clientData,
		missingConfiguration(cfg.Container),
		cfg.Log,
	)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(requestTimeout))

	// Read-only API: no credentials, GET only
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.telemetry.Handler())

	s.router.Route("/api", func(r chi.Router) {
		metricshandlers.NewHandler(s.container.MetricsService, s.log).RegisterRoutes(r)
		explanationhandlers.NewHandler(s.container.ExplanationsService, s.log).RegisterRoutes(r)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
		})
	})
}

// Router exposes the configured handler (tests).
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests and records them in telemetry
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.telemetry.ObserveHTTP(route, ww.Status(), elapsed)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", elapsed).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// missingConfiguration merges the per-concern missing lists without duplicates.
func missingConfiguration(c *di.Container) []string {
	seen := map[string]bool{}
	var out []string
	for _, key := range append(append([]string{}, c.MissingForQueries...), c.MissingForArtifacts...) {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/designer-portfolio-backend/config"
	"github.com/rpupo63/designer-portfolio-backend/errs"
	"github.com/rpupo63/designer-portfolio-backend/services"
)

// Dependencies are the services the HTTP layer serves. A nil Uploader
// leaves /api/uploads unmounted.
type Dependencies struct {
	Projects *services.ProjectService
	Auth     *services.AuthService
	Uploader Uploader
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	if deps.Projects == nil || deps.Auth == nil {
		return Server{}, errs.NewConfigError("server", fmt.Errorf("project and auth services are required"))
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadTimeout:       config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:       config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	m := newMetrics()

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(RealIP(parseTrustedProxies(config.GetList(router.config, "TRUSTED_PROXIES"))))
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(m.instrument)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	secureCookie := config.GetBool(router.config, "COOKIE_SECURE", true)
	handlers := initializeHandlers(deps, m, secureCookie)
	authMiddleware := newAuthMiddleware(deps.Auth)
	likeLimiter := newVisitorLimiter(config.GetInt(router.config, "LIKE_RATE_PER_MINUTE", 30))

	chiRouter.Get("/healthz", healthz(NewResponder(log.Logger), router.startupTime))
	chiRouter.Method("GET", "/metrics", m.handler())
	setupRoutes(chiRouter, handlers, authMiddleware, likeLimiter)

	return chiRouter
}

// Start serves until the server is shut down. A graceful shutdown is not
// reported as an error.
func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}

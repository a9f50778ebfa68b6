package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"roombook/internal/auth"
	"roombook/internal/config"
	"roombook/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// Services are the collaborators the HTTP API dispatches to. Seed may be
// nil when dev seeding is disabled.
type Services struct {
	Bookings  domain.BookingService
	Resources domain.ResourceService
	Auth      domain.AuthService
	Seed      domain.SeedService
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPServer exposes the booking API over JSON.
type HTTPServer struct {
	cfg      config.APIConfig
	services Services
	health   Pinger
	auth     *HTTPAuth
	validate *validator.Validate
	router   *httprouter.Router
	server   *http.Server
	logger   *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, services Services, tokens *auth.TokenManager, health Pinger, logger *zerolog.Logger) *HTTPServer {
	l := logger.With().Str("component", "http").Logger()
	srv := &HTTPServer{
		cfg:      cfg,
		services: services,
		health:   health,
		auth:     NewHTTPAuth(tokens, &l),
		validate: validator.New(),
		router:   httprouter.New(),
		logger:   &l,
	}
	srv.routes()

	readTimeout := cfg.HTTP.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := cfg.HTTP.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 15 * time.Second
	}

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}
	return srv
}

func (s *HTTPServer) routes() {
	r := s.router
	handle := func(method, path string, h httprouter.Handle) {
		r.Handle(method, path, instrument(s.logger, path, h))
	}

	handle(http.MethodGet, "/health", s.handleHealth)
	handle(http.MethodPost, "/auth/login", s.handleLogin)

	handle(http.MethodGet, "/resources", s.auth.Authenticated(s.handleListResources))
	handle(http.MethodPost, "/resources", s.auth.Admin(s.handleCreateResource))
	handle(http.MethodPatch, "/resources/:id", s.auth.Admin(s.handleUpdateResource))

	handle(http.MethodPost, "/bookings", s.auth.Authenticated(s.handleCreateBooking))
	handle(http.MethodGet, "/bookings", s.auth.Authenticated(s.handleListBookings))
	handle(http.MethodPost, "/bookings/:id/cancel", s.auth.Authenticated(s.handleCancelBooking))

	handle(http.MethodGet, "/audit", s.auth.Admin(s.handleListAudit))

	if s.cfg.DevSeed && s.services.Seed != nil {
		handle(http.MethodPost, "/dev/seed", s.handleDevSeed)
		s.logger.Warn().Msg("Dev seed endpoint enabled")
	}

	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, domain.KindNotFound, "route not found")
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, domain.KindValidation, "method not allowed")
	})
}

// Handler is the full middleware-wrapped router.
func (s *HTTPServer) Handler() http.Handler {
	return requestContext(s.logger, s.router)
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

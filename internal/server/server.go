// Package server serves decorated pages over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/render"
	"git.home.luguber.info/inful/pageloader/internal/version"
)

// Renderer renders one page for one visitor session.
type Renderer interface {
	Render(ctx context.Context, path, sessionID string) (*render.Result, error)
}

// Server is the page server.
type Server struct {
	Addr     string
	router   *chi.Mux
	server   *http.Server
	renderer Renderer
	errors   *derrors.HTTPErrorAdapter
	logger   *slog.Logger
	metrics  http.Handler
	cookie   string
	timeout  time.Duration
	started  time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes h on /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithSessionCookie names the cookie carrying the visitor session id.
func WithSessionCookie(name string) Option { return func(s *Server) { s.cookie = name } }

// WithRenderTimeout bounds each page render.
func WithRenderTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithLogger replaces the request logger.
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// New creates a server rendering pages through renderer.
func New(addr string, renderer Renderer, opts ...Option) *Server {
	s := &Server{
		Addr:     addr,
		router:   chi.NewRouter(),
		renderer: renderer,
		logger:   slog.Default(),
		cookie:   "pl_session",
		timeout:  30 * time.Second,
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.errors = derrors.NewHTTPErrorAdapter(s.logger)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger, s.errors))

	s.router.Get("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}
	s.router.Get("/*", s.handlePage)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("Page server listening", slog.String("addr", s.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return derrors.WrapError(err, derrors.CategoryNetwork, "page server failed").WithContext("addr", s.Addr).Build()
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Uptime:  time.Since(s.started).Seconds(),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	sid := s.sessionID(w, r)
	res, err := s.renderer.Render(ctx, r.URL.Path, sid)
	if err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}

	h := w.Header()
	h.Set("X-Page-Id", res.ID)
	if len(res.Degradations) > 0 {
		h.Set("X-Page-Degradations", strconv.Itoa(len(res.Degradations)))
	}
	if res.ETag != "" {
		etag := `"` + res.ETag + `"`
		h.Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	h.Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.Markup))
	s.logger.DebugContext(ctx, "Page rendered",
		logfields.PageID(res.ID),
		logfields.Path(r.URL.Path),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
}

// sessionID returns the visitor session from its cookie, issuing one when
// absent.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.cookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

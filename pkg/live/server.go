package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server mounts the live-table endpoints and owns the session registry.
type Server struct {
	config   *Config
	sessions *Manager
	factory  TableFactory
	upgrader websocket.Upgrader
	mw       []EventMiddleware

	httpServer *http.Server
}

// NewServer creates a server serving tables built by factory.
func NewServer(factory TableFactory, config *Config, middleware ...EventMiddleware) *Server {
	config = config.withDefaults()

	s := &Server{
		config:   config,
		sessions: NewManager(config.MaxSessions),
		factory:  factory,
		mw:       middleware,
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	return s
}

// Sessions exposes the registry, mainly for stats endpoints and tests.
func (s *Server) Sessions() *Manager {
	return s.sessions
}

// Handler returns the chi router with /live, /healthz and /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/live", s.handleUpgrade)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully:
// sessions are closed and in-flight HTTP requests get a drain window.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s.Handler(),
	}

	if s.config.IdleTimeout > 0 {
		go s.sweepLoop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("listening", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.config.Logger.Info("shutting down")
		s.sessions.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// sweepLoop periodically closes idle sessions.
func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.CloseIdle(s.config.IdleTimeout); n > 0 {
				s.config.Logger.Info("closed idle sessions", "count", n)
			}
		}
	}
}

// handleUpgrade upgrades the connection and runs the session. The upgrade
// request's query string seeds the table's URL state, so a client
// connecting from a bookmarked URL resumes its filters and page.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxSessions > 0 && s.sessions.Stats().Active >= s.config.MaxSessions {
		http.Error(w, "session limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Logger.Error("upgrade failed", "error", err)
		return
	}

	session, err := NewSession(newSessionID(), conn, s.factory, r.URL.Query(), s.config, s.mw)
	if err != nil {
		s.config.Logger.Error("session setup failed", "error", err)
		conn.Close()
		return
	}

	if err := s.sessions.Add(session); err != nil {
		s.config.Logger.Warn("session rejected", "error", err)
		session.Close()
		return
	}
	defer s.sessions.Remove(session.ID())

	session.logger.Debug("session opened", "remote", r.RemoteAddr)

	go session.WriteLoop()

	// Initial snapshot so the client renders without waiting for an event.
	if err := session.Flush(); err != nil {
		session.logger.Error("initial flush failed", "error", err)
	}

	session.ReadLoop()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// checkOrigin enforces the allowed-origin list; an empty list allows all.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.config.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// newSessionID returns a random 128-bit hex identifier.
func newSessionID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a time-based ID if it somehow does.
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(buf[:])
}

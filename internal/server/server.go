// Package server exposes the sync protocol over a websocket so a browser
// panel can drive greps and manage saved settings.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"grephl/internal/domain"
	"grephl/internal/protocol"
	"grephl/internal/settings"
)

// Config holds server configuration
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// Server serves the panel websocket and a small read-only settings API
type Server struct {
	cfg        Config
	host       *protocol.Host
	hub        *Hub
	store      *settings.Store
	log        *zap.Logger
	upgrader   websocket.Upgrader
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. hub must be the ResultOpener and Notifier the host
// was built with.
func New(cfg Config, host *protocol.Host, hub *Hub, store *settings.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:   cfg,
		host:  host,
		hub:   hub,
		store: store,
		log:   log,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/", s.handleListSettings)
		r.Get("/{name}", s.handleGetSettings)
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}

// Router returns the chi router
func (s *Server) Router() chi.Router { return s.router }

// Run listens on the configured address until ctx is done
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", s.cfg.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("listing settings", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list settings"})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"settings": names})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cfg, err := s.store.Get(r.Context(), name)
	switch {
	case errors.Is(err, domain.ErrConfigNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "settings not found"})
	case err != nil:
		s.log.Error("reading settings", zap.String("name", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read settings"})
	default:
		writeJSON(w, http.StatusOK, cfg)
	}
}

// handleWebSocket attaches the connection as the panel. Each connection is a
// new session, so a reconnecting browser never sees replies meant for the
// previous one.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	panel := &wsPanel{conn: conn}
	s.hub.activate(panel)
	defer s.hub.deactivate(panel)

	session := s.host.Attach(panel)
	defer s.host.Detach(session)
	log := s.log.With(zap.String("session", session))
	log.Info("panel connected", zap.String("remote", r.RemoteAddr))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", zap.Error(err))
			}
			log.Info("panel disconnected")
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			log.Debug("dropping malformed message", zap.Error(err))
			continue
		}
		s.host.Post(session, msg)
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if matchOrigin(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package web serves the game to a browser: an embedded page that draws
// snapshots on a canvas, and a websocket per player that carries commands
// in and snapshots out.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/snekrush/rules"
)

//go:embed static/index.html static/app.js
var static embed.FS

// DefaultFrame is how often a connection's session is advanced.
const DefaultFrame = 16 * time.Millisecond

// Config configures a Server.
type Config struct {
	Settings rules.Settings
	// Seed fixes the first connection's game; later connections use
	// Seed+1, Seed+2, ... Zero seeds every connection from the clock.
	Seed  int64
	Frame time.Duration

	Logger *slog.Logger
}

// Server hands every websocket connection its own session.
type Server struct {
	cfg      Config
	log      *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	conns atomic.Int64
	seq   atomic.Int64
}

// New validates the ruleset up front so a bad configuration fails at
// startup rather than on the first connection.
func New(cfg Config) (*Server, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	if cfg.Frame <= 0 {
		cfg.Frame = DefaultFrame
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		cfg: cfg,
		log: cfg.Logger,
		// Players join from phones on the LAN, so any origin is fine.
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/app.js", s.handleScript)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	return s, nil
}

// Handler returns the routes with the common headers applied.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		withHeaders(w)
		if r.Method == http.MethodOptions {
			return
		}
		s.mux.ServeHTTP(w, r)
	})
}

// Serve runs the HTTP server on ln until ctx is cancelled. Open game
// connections see the same cancellation and close themselves.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Connections is the number of open game connections.
func (s *Server) Connections() int64 { return s.conns.Load() }

func (s *Server) nextSeed() int64 {
	n := s.seq.Add(1) - 1
	if s.cfg.Seed == 0 {
		return time.Now().UnixNano() + n
	}
	return s.cfg.Seed + n
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	serveStatic(w, "static/index.html", "text/html; charset=utf-8")
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	serveStatic(w, "static/app.js", "text/javascript; charset=utf-8")
}

type healthResponse struct {
	Status      string `json:"status"`
	Connections int64  `json:"connections"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, healthResponse{Status: "ok", Connections: s.Connections()})
}

func serveStatic(w http.ResponseWriter, name, contentType string) {
	b, err := static.ReadFile(name)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(b)
}

func withHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

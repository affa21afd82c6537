// Package api serves a running game over HTTP.
// GET endpoints are public and read-only.
// POST endpoints require the admin bearer token.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/talgya/sengoku/internal/command"
	"github.com/talgya/sengoku/internal/engine"
	"github.com/talgya/sengoku/internal/realm"
)

// Default command quota per client.
const (
	CommandRate   = 120
	CommandWindow = time.Minute
)

// Server serves one game. The game is not safe for concurrent use, so every
// handler that touches it holds mu.
type Server struct {
	Game     *engine.Game
	Port     int
	AdminKey string       // Bearer token for POST endpoints. Empty = POST disabled.
	Limiter  *RateLimiter // nil = CommandRate per CommandWindow

	mu sync.Mutex
}

// CommandRequest is the body of POST /api/v1/command.
type CommandRequest struct {
	Clan   realm.ClanID   `json:"clan"`
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// CommandResponse carries the result even when the command was rejected.
type CommandResponse struct {
	command.Result
	Error string `json:"error,omitempty"`
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	if s.Limiter == nil {
		s.Limiter = NewRateLimiter(CommandRate, CommandWindow)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/clans", s.handleClans)
	mux.HandleFunc("GET /api/v1/castles", s.handleCastles)
	mux.HandleFunc("GET /api/v1/victory", s.handleVictory)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)

	mux.HandleFunc("POST /api/v1/command", s.adminOnly(RateLimitMiddleware(s.Limiter, s.handleCommand)))
	mux.HandleFunc("POST /api/v1/end-turn", s.adminOnly(s.handleEndTurn))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go s.Limiter.Sweep(ctx, time.Hour)

	slog.Info("HTTP API starting", "addr", srv.Addr, "admin_auth", s.AdminKey != "", "game", s.Game.ID())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.AdminKey
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no SENGOKU_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.Game.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"game":        s.Game.ID(),
		"turn":        st.Turn,
		"player_clan": st.PlayerClanID,
		"clans":       len(st.Clans),
		"castles":     len(st.Castles),
		"characters":  len(st.Characters),
		"standings":   s.Game.Standings(),
		"game_over":   s.Game.Verdict().GameOver,
	})
}

func (s *Server) handleClans(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Game.Clans())
}

func (s *Server) handleCastles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	castles := s.Game.Castles()
	if owner := r.URL.Query().Get("owner"); owner != "" {
		filtered := castles[:0]
		for _, c := range castles {
			if string(c.OwnerID) == owner {
				filtered = append(filtered, c)
			}
		}
		castles = filtered
	}
	writeJSON(w, http.StatusOK, castles)
}

func (s *Server) handleVictory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Game.Verdict())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Game.Events(limit))
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Clan == "" || req.Action == "" {
		http.Error(w, "clan and action are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Game.Verdict().GameOver {
		http.Error(w, "game is over", http.StatusConflict)
		return
	}
	if _, ok := s.Game.Clans()[req.Clan]; !ok {
		http.Error(w, fmt.Sprintf("unknown clan %q", req.Clan), http.StatusNotFound)
		return
	}

	res, err := s.Game.Execute(r.Context(), req.Clan, req.Action, req.Params)
	switch {
	case err == nil:
		slog.Info("command accepted", "clan", req.Clan, "action", res.Kind, "success", res.Success)
		writeJSON(w, http.StatusOK, CommandResponse{Result: res})
	case command.IsRejection(err):
		writeJSON(w, http.StatusUnprocessableEntity, CommandResponse{Result: res, Error: err.Error()})
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Game.Verdict().GameOver {
		http.Error(w, "game is over", http.StatusConflict)
		return
	}
	rep, err := s.Game.EndTurn(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report":  rep,
		"turn":    s.Game.Turn(),
		"victory": s.Game.Verdict(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Warn("write response", "error", err)
	}
}

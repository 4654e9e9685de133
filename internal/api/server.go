// Package api provides the HTTP surface over the game facade.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (the control plane used by the
// input layer and the farmhand bot).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/homestead/internal/game"
	"github.com/talgya/homestead/internal/persistence"
)

// Server serves the farm state over HTTP.
type Server struct {
	Game     *game.Game
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the full route table, including CORS and per-client rate
// limiting on the control plane.
func (s *Server) Handler() http.Handler {
	limiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/tile", s.handleTile)
	mux.HandleFunc("/api/v1/tiles", s.handleTiles)
	mux.HandleFunc("/api/v1/areas", s.handleAreas)
	mux.HandleFunc("/api/v1/area", s.handleArea)
	mux.HandleFunc("/api/v1/progress", s.handleProgress)
	mux.HandleFunc("/api/v1/fertilizer", s.handleFertilizer)
	mux.HandleFunc("/api/v1/balance", s.handleBalance)
	mux.HandleFunc("/api/v1/ledger", s.handleLedger)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/ground", s.handleGround)
	mux.HandleFunc("/api/v1/export", s.handleExport)

	// Control endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/till", s.adminOnly(RateLimitMiddleware(limiter, s.handleTill)))
	mux.HandleFunc("/api/v1/road", s.adminOnly(RateLimitMiddleware(limiter, s.handleRoad)))
	mux.HandleFunc("/api/v1/clear", s.adminOnly(RateLimitMiddleware(limiter, s.handleClear)))
	mux.HandleFunc("/api/v1/plant", s.adminOnly(RateLimitMiddleware(limiter, s.handlePlant)))
	mux.HandleFunc("/api/v1/water", s.adminOnly(RateLimitMiddleware(limiter, s.handleWater)))
	mux.HandleFunc("/api/v1/fertilize", s.adminOnly(RateLimitMiddleware(limiter, s.handleFertilize)))
	mux.HandleFunc("/api/v1/harvest", s.adminOnly(RateLimitMiddleware(limiter, s.handleHarvest)))
	mux.HandleFunc("/api/v1/purchase", s.adminOnly(RateLimitMiddleware(limiter, s.handlePurchase)))
	mux.HandleFunc("/api/v1/tool", s.handleTool)
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))
	mux.HandleFunc("/api/v1/import", s.adminOnly(s.handleImport))
	mux.HandleFunc("/api/v1/reset", s.adminOnly(s.handleReset))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminOnly enforces bearer-token auth on mutating endpoints.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "control plane disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// coordParams reads x and y query parameters.
func coordParams(r *http.Request) (x, y int, err error) {
	x, err = strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		return 0, 0, fmt.Errorf("bad x: %w", err)
	}
	y, err = strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		return 0, 0, fmt.Errorf("bad y: %w", err)
	}
	return x, y, nil
}

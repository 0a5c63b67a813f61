// Package api provides the HTTP API for querying park state.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/park"
	"github.com/henriktoth/safarimanager/internal/persistence"
)

// Server serves the park state over HTTP. Mu guards Model against the tick
// loop; every handler takes it around reads.
type Server struct {
	Model    *park.Model
	DB       *persistence.DB
	Mu       *sync.Mutex
	Addr     string
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Snapshot writes hit the disk; keep them off any hot path.
	snapshotLimiter := NewRateLimiter(30, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only — anyone can check in on the park).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/animals", s.handleAnimals)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/journal", s.handleJournal)
	mux.HandleFunc("/api/v1/map", s.handleMap)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(RateLimitMiddleware(snapshotLimiter, s.handleSnapshot)))

	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(s.Addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) lock() {
	if s.Mu != nil {
		s.Mu.Lock()
	}
}

func (s *Server) unlock() {
	if s.Mu != nil {
		s.Mu.Unlock()
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
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

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no SAFARI_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.lock()
	defer s.unlock()

	md := s.Model
	goal := md.Goal()

	status := map[string]any{
		"day":            md.Day,
		"clock_minutes":  md.Clock(),
		"speed":          speedName(md.Speed()),
		"open":           md.IsOpen(),
		"balance":        md.Balance,
		"entry_fee":      md.EntryFee,
		"rating":         md.Rating(),
		"streak":         md.Streak(),
		"won":            md.Won(),
		"lost":           md.Lost(),
		"animals":        md.Map.CountAnimals(),
		"herbivores":     md.Map.CountDiet(agents.DietHerbivore),
		"carnivores":     md.Map.CountDiet(agents.DietCarnivore),
		"groups":         md.Map.GroupCount(),
		"visitors_today": md.VisitorsToday(),
		"queued_visitors": md.Map.QueuedVisitors(),
		"waiting_jeeps":  md.Map.WaitingJeeps(),
		"goal": map[string]any{
			"id":             goal.ID,
			"min_balance":    goal.MinBalance,
			"min_herbivores": goal.MinHerbivores,
			"min_carnivores": goal.MinCarnivores,
			"min_visitors":   goal.MinVisitors,
			"days":           goal.Days,
		},
	}
	writeJSON(w, status)
}

func (s *Server) handleAnimals(w http.ResponseWriter, r *http.Request) {
	kindFilter := r.URL.Query().Get("kind")

	type animalSummary struct {
		ID       int     `json:"id"`
		Kind     string  `json:"kind"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Age      float64 `json:"age"`
		Adult    bool    `json:"adult"`
		Hunger   float64 `json:"hunger"`
		Thirst   float64 `json:"thirst"`
		Group    int     `json:"group"`
		Chipped  bool    `json:"chipped"`
		Captured bool    `json:"captured"`
	}

	s.lock()
	defer s.unlock()

	result := []animalSummary{}
	for _, aa := range s.Model.Map.Animals() {
		if kindFilter != "" && aa.Kind() != kindFilter {
			continue
		}
		st := aa.AnimalState()
		pos := aa.Pos()
		result = append(result, animalSummary{
			ID:       aa.ID(),
			Kind:     aa.Kind(),
			X:        pos.X,
			Y:        pos.Y,
			Age:      st.Age,
			Adult:    st.IsAdult(),
			Hunger:   st.Hunger,
			Thirst:   st.Thirst,
			Group:    st.Group,
			Chipped:  st.Chipped,
			Captured: st.Captured,
		})
	}
	writeJSON(w, result)
}

// eventView is the wire form of an event with the kind spelled out.
type eventView struct {
	Kind    string `json:"kind"`
	AgentID int    `json:"agent_id,omitempty"`
	CellX   int    `json:"cell_x,omitempty"`
	CellY   int    `json:"cell_y,omitempty"`
	Ratings []int  `json:"ratings,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	TourID  string `json:"tour_id,omitempty"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	kindFilter := r.URL.Query().Get("kind")

	s.lock()
	recent := s.Model.RecentEvents()
	s.unlock()

	if kindFilter != "" {
		var filtered []events.Event
		for _, e := range recent {
			if e.Kind.String() == kindFilter {
				filtered = append(filtered, e)
			}
		}
		recent = filtered
	}

	start := 0
	if len(recent) > limit {
		start = len(recent) - limit
	}

	result := []eventView{}
	for _, e := range recent[start:] {
		result = append(result, eventView{
			Kind:    e.Kind.String(),
			AgentID: e.AgentID,
			CellX:   e.Cell.X,
			CellY:   e.Cell.Y,
			Ratings: e.Ratings,
			Amount:  e.Amount,
			TourID:  e.TourID,
		})
	}
	writeJSON(w, result)
}

// handleJournal returns persisted event history, newest first.
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	entries, err := s.DB.RecentJournal(limit)
	if err != nil {
		slog.Error("journal query failed", "error", err)
		// Return empty array instead of error — table may not have data yet.
		writeJSON(w, []persistence.JournalEntry{})
		return
	}
	if entries == nil {
		entries = []persistence.JournalEntry{}
	}
	writeJSON(w, entries)
}

// handleMap returns the tile grid and sprite positions for a renderer.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	type tileEntry struct {
		X    int    `json:"x"`
		Y    int    `json:"y"`
		Kind string `json:"kind"`
	}
	type spriteEntry struct {
		X       float64 `json:"x"`
		Y       float64 `json:"y"`
		Texture string  `json:"texture"`
		Scale   float64 `json:"scale"`
		Layer   int     `json:"layer"`
	}

	s.lock()
	defer s.unlock()

	grid := s.Model.Map.Grid
	tiles := make([]tileEntry, 0, grid.Width*grid.Height)
	for _, t := range grid.Tiles() {
		entry := tileEntry{X: t.Cell.X, Y: t.Cell.Y}
		if t.Kind != nil {
			entry.Kind = t.Kind.ID
		}
		tiles = append(tiles, entry)
	}

	sprites := []spriteEntry{}
	for _, d := range s.Model.Map.DrawData() {
		sprites = append(sprites, spriteEntry{
			X:       d.Pos.X,
			Y:       d.Pos.Y,
			Texture: d.Texture,
			Scale:   d.Scale,
			Layer:   d.Layer,
		})
	}

	writeJSON(w, map[string]any{
		"width":    grid.Width,
		"height":   grid.Height,
		"entrance": grid.Entrance,
		"exit":     grid.Exit,
		"tiles":    tiles,
		"sprites":  sprites,
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed string `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		sp, ok := speedFromName(req.Speed)
		if !ok {
			http.Error(w, "speed must be hour, day, or week", http.StatusBadRequest)
			return
		}
		s.lock()
		s.Model.SetSpeed(sp)
		s.unlock()
		slog.Info("speed changed", "speed", req.Speed)
	}

	s.lock()
	defer s.unlock()
	writeJSON(w, map[string]string{"speed": speedName(s.Model.Speed())})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	s.lock()
	err := s.DB.SavePark(s.Model)
	day := s.Model.Day
	s.unlock()
	if err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"day":     day,
		"message": "snapshot saved",
	})
}

func speedName(sp park.Speed) string {
	switch sp {
	case park.SpeedDay:
		return "day"
	case park.SpeedWeek:
		return "week"
	default:
		return "hour"
	}
}

func speedFromName(name string) (park.Speed, bool) {
	switch name {
	case "hour":
		return park.SpeedHour, true
	case "day":
		return park.SpeedDay, true
	case "week":
		return park.SpeedWeek, true
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/defs"
	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/park"
	"github.com/henriktoth/safarimanager/internal/world"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	sand := &world.TileKind{ID: "sand"}
	grid := world.NewGrid(8, 6, sand)

	catalog := &park.Catalog{
		Tiles:   defs.NewRegistry[*world.TileKind](),
		Animals: defs.NewRegistry[agents.Attrs](),
		Units:   defs.NewRegistry[agents.Attrs](),
		Goals:   defs.NewRegistry[park.Goal](),
	}
	catalog.Tiles.Register("sand", sand)
	catalog.Animals.Register("gazelle", agents.Attrs{
		Diet: agents.DietHerbivore, Speed: 10, ViewDistance: 4,
		Price: 100, SellPrice: 60,
	})

	cfg := park.DefaultConfig()
	spawns := park.SpawnConfig{PlantMin: 1e9, PlantMax: 1e9 + 1, PoacherMin: 1e9, PoacherMax: 1e9 + 1}
	m := park.NewMap(grid, catalog, spawns, entropy.NewSeeded(1))
	md := park.NewModel(m, catalog, cfg, park.Goal{ID: "easy", Days: 2}, entropy.NewSeeded(1))

	return &Server{Model: md, Mu: &sync.Mutex{}}
}

func TestStatusEndpoint(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["balance"].(float64) != 2000 {
		t.Errorf("balance = %v, want 2000", got["balance"])
	}
	if got["speed"] != "hour" {
		t.Errorf("speed = %v, want hour", got["speed"])
	}
	if got["rating"].(float64) != 3 {
		t.Errorf("rating = %v, want 3", got["rating"])
	}
	if got["open"] != false {
		t.Errorf("open = %v, want false", got["open"])
	}
}

func TestAnimalsEndpoint(t *testing.T) {
	s := testServer(t)
	if _, ok := s.Model.BuyAnimal("gazelle", world.Cell{X: 3, Y: 3}, s.Model.NewGroupID()); !ok {
		t.Fatal("buying the gazelle failed")
	}
	s.Model.Map.Tick(0, false) // flush the staged spawn

	rec := httptest.NewRecorder()
	s.handleAnimals(rec, httptest.NewRequest(http.MethodGet, "/api/v1/animals", nil))

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("animals = %d, want 1", len(got))
	}
	if got[0]["kind"] != "gazelle" {
		t.Errorf("kind = %v, want gazelle", got[0]["kind"])
	}
	if got[0]["hunger"].(float64) != 100 {
		t.Errorf("hunger = %v, want 100", got[0]["hunger"])
	}

	rec = httptest.NewRecorder()
	s.handleAnimals(rec, httptest.NewRequest(http.MethodGet, "/api/v1/animals?kind=lion", nil))
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("filtered body = %q, want empty array", body)
	}
}

func TestEventsEndpointEmpty(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleEvents(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestSpeedEndpointAuth(t *testing.T) {
	s := testServer(t)
	s.AdminKey = "secret"
	handler := s.adminOnly(s.handleSpeed)

	t.Run("post without token is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed":"week"}`))
		handler(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if s.Model.Speed() != park.SpeedHour {
			t.Error("speed changed despite rejected request")
		}
	})

	t.Run("post with token switches speed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed":"week"}`))
		req.Header.Set("Authorization", "Bearer secret")
		handler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if s.Model.Speed() != park.SpeedWeek {
			t.Errorf("speed = %v, want week", s.Model.Speed())
		}
	})

	t.Run("unknown level is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed":"month"}`))
		req.Header.Set("Authorization", "Bearer secret")
		handler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestSnapshotWithoutDatabase(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleSnapshot(rec, httptest.NewRequest(http.MethodPost, "/api/v1/snapshot", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.handleSnapshot(rec, httptest.NewRequest(http.MethodGet, "/api/v1/snapshot", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}
	if rl.RetryAfter("10.0.0.1") <= 0 {
		t.Error("limited client should get a retry hint")
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4312"
	if got := clientIP(req); got != "192.168.1.5" {
		t.Errorf("clientIP = %q, want bare host", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 192.168.1.5")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Errorf("clientIP = %q, want first forwarded hop", got)
	}
}

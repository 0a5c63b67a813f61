// Command safarisim runs the safari park management simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/henriktoth/safarimanager/internal/api"
	"github.com/henriktoth/safarimanager/internal/defs"
	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/park"
	"github.com/henriktoth/safarimanager/internal/persistence"
	"github.com/henriktoth/safarimanager/internal/telemetry"
)

// tickInterval is the wall-clock pacing of one outer tick.
const tickInterval = 500 * time.Millisecond

// tickDt is the sim time-units one outer tick advances at hour speed.
const tickDt = 1.0

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults apply when empty)")
	fresh := flag.Bool("fresh", false, "ignore any saved park and generate a new one")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := park.DefaultConfig()
	if *configPath != "" {
		loaded, err := park.LoadConfig(*configPath)
		if err != nil {
			slog.Error("config load failed", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	db, err := persistence.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DatabasePath)

	// Prefer true randomness when a random.org key is present; the seeded
	// source keeps runs reproducible otherwise.
	var rng entropy.Source = entropy.NewSeeded(cfg.Seed)
	if c := entropy.NewClient(os.Getenv("RANDOM_ORG_KEY")); c != nil {
		slog.Info("entropy source: random.org pool")
		rng = c
	}

	store := defs.NewStore(cfg.Defs.Root)

	// ── Load or generate the park ─────────────────────────────────────
	var md *park.Model
	resumed := false
	if !*fresh {
		if ok, err := db.HasSnapshot(); err == nil && ok {
			st, err := db.LoadState()
			if err != nil {
				slog.Error("failed to load snapshot", "error", err)
				os.Exit(1)
			}
			md, err = park.RestorePark(cfg, store, rng, st)
			if err != nil {
				slog.Error("failed to restore park", "error", err)
				os.Exit(1)
			}
			resumed = true
			slog.Info("park restored",
				"day", md.Day,
				"balance", md.Balance,
				"animals", md.Map.CountAnimals(),
			)
		}
	}
	if md == nil {
		md, err = park.NewPark(cfg, store, rng)
		if err != nil {
			slog.Error("failed to build park", "error", err)
			os.Exit(1)
		}
		slog.Info("park generated",
			"seed", cfg.Seed,
			"size", fmt.Sprintf("%dx%d", cfg.World.Width, cfg.World.Height),
			"animals", md.Map.CountAnimals(),
		)
		if err := db.SavePark(md); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// A generated park has roads from terrain generation; open right away so
	// visitors start arriving.
	if md.Open() {
		slog.Info("park open", "goal", md.Goal().ID)
	} else {
		slog.Warn("park has no entrance-exit road path; staying closed")
	}

	// mu guards the model between the tick loop and the API handlers.
	var mu sync.Mutex

	// ── Daily bookkeeping: autosave, journal, telemetry ───────────────
	csv := telemetry.NewWriter(cfg.TelemetryPath)
	md.OnDay = func(day int) {
		if err := db.SavePark(md); err != nil {
			slog.Error("daily save failed", "error", err)
		}
		if err := db.AppendJournal(day, md.RecentEvents()); err != nil {
			slog.Error("journal append failed", "error", err)
		}
		if err := csv.Append([]telemetry.DayStats{telemetry.Collect(md, day)}); err != nil {
			slog.Error("telemetry append failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("SAFARI_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("SAFARI_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}
	apiServer := &api.Server{
		Model:    md,
		DB:       db,
		Mu:       &mu,
		Addr:     cfg.APIAddr,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Run ───────────────────────────────────────────────────────────
	var running atomic.Bool
	running.Store(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		running.Store(false)
	}()

	fmt.Printf("\nSafari park is live: %s on the balance, %d animals, rating %d/5.\n",
		humanize.Comma(int64(md.Balance)), md.Map.CountAnimals(), md.Rating())
	fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.APIAddr)
	if resumed {
		fmt.Printf("Resuming from day %d.\n", md.Day)
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	for running.Load() {
		start := time.Now()

		mu.Lock()
		md.Tick(tickDt)
		won, lost := md.Won(), md.Lost()
		mu.Unlock()

		if won {
			fmt.Printf("\nGoal %q held for %d days — the park wins on day %d.\n",
				md.Goal().ID, md.Goal().Days, md.Day)
			break
		}
		if lost {
			fmt.Printf("\nThe park is broke and empty on day %d. Game over.\n", md.Day)
			break
		}

		if elapsed := time.Since(start); elapsed < tickInterval {
			time.Sleep(tickInterval - elapsed)
		}
	}

	slog.Info("final save...")
	mu.Lock()
	err = db.SavePark(md)
	mu.Unlock()
	if err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Printf("Simulation stopped on day %d with %s in the bank. Park state saved.\n",
		md.Day, humanize.Comma(int64(md.Balance)))
}

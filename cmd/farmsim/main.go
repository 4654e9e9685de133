// Command farmsim runs the Homestead farming simulation server.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/homestead/internal/api"
	"github.com/talgya/homestead/internal/config"
	"github.com/talgya/homestead/internal/game"
	"github.com/talgya/homestead/internal/persistence"
)

func main() {
	var (
		configPath = flag.String("config", "configs/homestead.yaml", "path to config file (optional)")
		dbPath     = flag.String("db", "data/homestead.db", "path to the save database")
		port       = flag.Int("port", 8080, "HTTP API port")
		sweepEvery = flag.Duration("sweep", time.Second, "batch growth update interval")
		saveEvery  = flag.Duration("autosave", 30*time.Second, "autosave interval (0 disables)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"area_size", cfg.AreaSize,
		"starting_balance", cfg.StartingBalance,
		"crops", len(cfg.Crops),
	)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(*dbPath), 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	// ── World ─────────────────────────────────────────────────────────
	g := game.New(cfg)
	if db.HasSave() {
		slog.Info("found saved world state, loading...")
		ws, err := db.LoadGame()
		if err != nil {
			slog.Error("failed to load world state", "error", err)
			os.Exit(1)
		}
		if err := g.RestoreState(ws); err != nil {
			slog.Error("saved world state rejected", "error", err)
			os.Exit(1)
		}
		slog.Info("world state restored",
			"tiles", len(ws.Tiles), "areas", len(ws.Areas), "coins", ws.Coins)
	} else {
		slog.Info("starting fresh world", "coins", g.Balance())
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	server := &api.Server{
		Game:     g,
		DB:       db,
		Port:     *port,
		AdminKey: os.Getenv("HOMESTEAD_ADMIN_KEY"),
	}
	server.Start()

	// ── Sweep and autosave timers ─────────────────────────────────────
	// The engine is purely reactive; the schedule lives here. A missed
	// sweep loses nothing because stages derive from timestamps.
	sweepTicker := time.NewTicker(*sweepEvery)
	defer sweepTicker.Stop()

	var saveCh <-chan time.Time
	if *saveEvery > 0 {
		saveTicker := time.NewTicker(*saveEvery)
		defer saveTicker.Stop()
		saveCh = saveTicker.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			res := g.Sweep()
			if res.CropsGrown > 0 || res.WaterExpired > 0 {
				slog.Debug("sweep",
					"grown", res.CropsGrown,
					"expired", res.WaterExpired,
					"checked", res.CropsChecked,
				)
			}
		case <-saveCh:
			if err := db.SaveGame(g.ExportState()); err != nil {
				slog.Error("autosave failed", "error", err)
			}
		case sig := <-sigCh:
			slog.Info("shutting down", "signal", sig)
			if err := db.SaveGame(g.ExportState()); err != nil {
				slog.Error("final save failed", "error", err)
				os.Exit(1)
			}
			return
		}
	}
}

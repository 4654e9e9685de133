// Command farmhand runs the autonomous farm steward. It observes the farm
// via the public API, triages work with plain rules, and acts via the
// control-plane endpoints.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/homestead/internal/farmhand"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment.
	apiURL := envOrDefault("HOMESTEAD_API_URL", "http://localhost:8080")
	adminKey := os.Getenv("HOMESTEAD_ADMIN_KEY")
	intervalSec := envIntOrDefault("FARMHAND_INTERVAL", 10)
	areaSize := envIntOrDefault("FARMHAND_AREA_SIZE", 10)

	if adminKey == "" {
		slog.Error("HOMESTEAD_ADMIN_KEY is required")
		os.Exit(1)
	}

	interval := time.Duration(intervalSec) * time.Second
	slog.Info("farmhand starting", "api_url", apiURL, "interval", interval)

	observer := farmhand.NewObserver(apiURL)
	actor := farmhand.NewActor(apiURL, adminKey)
	planner := farmhand.DefaultPlanner(areaSize)

	// Wait for the server before the first cycle; process managers only
	// guarantee process start, not HTTP readiness.
	slog.Info("waiting for farm API...")
	waitForAPI(apiURL)

	runCycle(observer, actor, planner)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runCycle(observer, actor, planner)
		case sig := <-sigCh:
			slog.Info("farmhand stopping", "signal", sig)
			return
		}
	}
}

func runCycle(observer *farmhand.Observer, actor *farmhand.Actor, planner *farmhand.Planner) {
	snap, err := observer.Observe()
	if err != nil {
		slog.Error("observation failed", "error", err)
		return
	}
	slog.Info("observed farm",
		"coins", humanize.Comma(int64(snap.Status.Coins)),
		"tiles", snap.Status.Tiles,
		"crops", snap.Status.Crops,
		"mature", snap.Status.MatureCrops,
		"areas", snap.Status.UnlockedAreas,
	)

	quote := func(x, y int) (farmhand.AreaQuote, bool) {
		q, err := observer.QuoteArea(x, y)
		if err != nil {
			slog.Warn("area quote failed", "x", x, "y", y, "error", err)
			return farmhand.AreaQuote{}, false
		}
		return q, true
	}

	actions := planner.Plan(snap, quote)
	if len(actions) == 0 {
		slog.Info("nothing to do")
		return
	}

	earned := 0
	for _, action := range actions {
		result, err := actor.Do(action)
		if err != nil {
			slog.Error("action failed", "op", action.Op, "x", action.X, "y", action.Y, "error", err)
			continue
		}
		if !result.OK {
			slog.Warn("action rejected", "op", action.Op, "x", action.X, "y", action.Y, "reason", result.Reason)
			continue
		}
		earned += result.Reward
		slog.Info("acted", "op", action.Op, "x", action.X, "y", action.Y, "reward", result.Reward)
	}
	if earned > 0 {
		slog.Info("cycle complete", "earned", humanize.Comma(int64(earned)))
	}
}

func waitForAPI(baseURL string) {
	client := &http.Client{Timeout: 5 * time.Second}
	for {
		resp, err := client.Get(baseURL + "/api/v1/status")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(2 * time.Second)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

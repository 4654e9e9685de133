// Package game composes the store, engines, ledger, event bus and state
// manager behind one facade. The facade's mutex is the single serialization
// point: the engines themselves stay single-threaded and lock-free, and the
// HTTP layer can call in from request goroutines safely.
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/talgya/homestead/internal/config"
	"github.com/talgya/homestead/internal/economy"
	"github.com/talgya/homestead/internal/events"
	"github.com/talgya/homestead/internal/farm"
	"github.com/talgya/homestead/internal/land"
	"github.com/talgya/homestead/internal/state"
	"github.com/talgya/homestead/internal/world"
)

// Result is the outcome of a mutating operation. Business-rule failures are
// values, not errors: callers branch on OK and surface Reason to the user.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Reward int    `json:"reward,omitempty"`
}

func ok() Result                { return Result{OK: true} }
func fail(reason string) Result { return Result{Reason: reason} }

// Game is the facade over the whole world state.
type Game struct {
	mu sync.Mutex

	cfg    config.Config
	store  *world.Store
	bus    *events.Bus
	farm   *farm.Engine
	land   *land.Engine
	ledger *economy.Ledger
	states *state.Manager
	stats  *state.StatsObserver
	ground *world.GroundField

	now func() time.Time
}

// New creates a fresh game with the origin area unlocked and the starting
// balance seeded.
func New(cfg config.Config) *Game {
	return NewWithClock(cfg, time.Now, 0)
}

// NewWithClock creates a game with an injected clock and ground seed; tests
// use this to control time deterministically.
func NewWithClock(cfg config.Config, now func() time.Time, groundSeed int64) *Game {
	store := world.NewStore()
	bus := events.NewBus()

	g := &Game{
		cfg:    cfg,
		store:  store,
		bus:    bus,
		farm:   farm.NewEngine(store, &cfg, bus, now),
		land:   land.NewEngine(store, &cfg, bus, now),
		ledger: economy.NewLedger(cfg.StartingBalance, cfg.LedgerHistoryCap, bus, now),
		ground: world.NewGroundField(groundSeed),
		now:    now,
	}
	g.states = state.NewManager(cfg.StartingBalance, store.Tiles(), store.Areas(), now)
	g.states.BindBus(bus)
	g.stats = state.NewStatsObserver(bus)
	return g
}

// Bus exposes the event bus so presentation collaborators can subscribe.
func (g *Game) Bus() *events.Bus {
	return g.bus
}

// Config returns the active configuration.
func (g *Game) Config() config.Config {
	return g.cfg
}

// ── Tile operations ──────────────────────────────────────────────────────

// TillSoil develops an undeveloped coordinate into an empty soil tile.
func (g *Game) TillSoil(x, y int) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := world.Coord{X: x, Y: y}
	if !g.land.TileUnlocked(c) {
		return fail("tile is in locked area")
	}
	if g.store.Tile(c) != nil {
		return fail("tile already developed")
	}
	g.store.SetTile(c, world.NewSoil())
	g.bus.Publish(events.TileChanged{At: g.now(), Pos: c, Change: "tilled"})
	return ok()
}

// BuildRoad develops or converts the tile at (x, y) into a road. Converting
// soil discards any crop and enhancement state.
func (g *Game) BuildRoad(x, y int) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := world.Coord{X: x, Y: y}
	if !g.land.TileUnlocked(c) {
		return fail("tile is in locked area")
	}
	t := g.store.Tile(c)
	if t == nil {
		g.store.SetTile(c, world.NewRoad())
	} else {
		if t.Kind == world.TileRoad {
			return fail("tile is already a road")
		}
		t.ConvertToRoad()
	}
	g.bus.Publish(events.TileChanged{At: g.now(), Pos: c, Change: "road_built"})
	return ok()
}

// ClearTile removes the tile at (x, y), returning the coordinate to the
// undeveloped state.
func (g *Game) ClearTile(x, y int) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := world.Coord{X: x, Y: y}
	if !g.store.DeleteTile(c) {
		return fail("nothing to clear")
	}
	g.bus.Publish(events.TileChanged{At: g.now(), Pos: c, Change: "cleared"})
	return ok()
}

// ── Crop operations ──────────────────────────────────────────────────────

// PlantCrop plants a crop at (x, y), spending its seed cost. The tile
// preconditions are checked before coins move, so a failed planting never
// touches the ledger.
func (g *Game) PlantCrop(x, y int, crop string) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := world.Coord{X: x, Y: y}
	if !g.land.TileUnlocked(c) {
		return fail("tile is in locked area")
	}
	cropType := world.CropType(crop)
	if planted, reason := g.farm.CanPlant(c, cropType); !planted {
		return fail(reason)
	}
	def, _ := g.cfg.Crop(crop)
	if def.SeedCost > 0 && !g.ledger.Spend(def.SeedCost, fmt.Sprintf("seed: %s", crop)) {
		return fail("insufficient funds")
	}
	if planted, reason := g.farm.Plant(c, cropType); !planted {
		// Unreachable after CanPlant, but keep the ledger consistent.
		g.ledger.Earn(def.SeedCost, fmt.Sprintf("refund: %s", crop))
		return fail(reason)
	}
	return ok()
}

// WaterTile applies the water enhancement at (x, y).
func (g *Game) WaterTile(x, y int) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if done, reason := g.farm.Water(world.Coord{X: x, Y: y}); !done {
		return fail(reason)
	}
	return ok()
}

// FertilizeTile applies the fertilizer enhancement at (x, y).
func (g *Game) FertilizeTile(x, y int) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if done, reason := g.farm.Fertilize(world.Coord{X: x, Y: y}); !done {
		return fail(reason)
	}
	return ok()
}

// HarvestCrop harvests the crop at (x, y) and credits the reward.
func (g *Game) HarvestCrop(x, y int) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := world.Coord{X: x, Y: y}
	reward, done, reason := g.farm.Harvest(c)
	if !done {
		return fail(reason)
	}
	if reward > 0 {
		g.ledger.Earn(reward, fmt.Sprintf("harvest at %s", c.Key()))
	}
	return Result{OK: true, Reward: reward}
}

// ── Area operations ──────────────────────────────────────────────────────

// PurchaseArea buys the area at (x, y): eligibility, then funds, then the
// unlock itself. Every attempt emits a purchase-attempted event with the
// outcome; a failed attempt never mutates the ledger or the area map.
func (g *Game) PurchaseArea(x, y int) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := world.Coord{X: x, Y: y}
	cost := g.land.Cost(c)

	attempt := func(success bool, reason string) {
		g.bus.Publish(events.PurchaseAttempted{
			At: g.now(), Area: c, Cost: cost, Success: success, Reason: reason,
		})
	}

	if g.land.Unlocked(c) {
		attempt(false, "area already unlocked")
		return fail("area already unlocked")
	}
	if !g.land.Purchasable(c) {
		attempt(false, "area is not adjacent to unlocked land")
		return fail("area is not adjacent to unlocked land")
	}
	if !g.ledger.Spend(cost, fmt.Sprintf("unlock area %s", c.Key())) {
		attempt(false, "insufficient funds")
		return fail("insufficient funds")
	}
	if done, reason := g.land.Unlock(c); !done {
		// Unreachable given the checks above; refund to stay consistent.
		g.ledger.Earn(cost, fmt.Sprintf("refund area %s", c.Key()))
		attempt(false, reason)
		return fail(reason)
	}
	attempt(true, "")
	return ok()
}

// HoverArea publishes pointer-over-area feedback for the UI.
func (g *Game) HoverArea(x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bus.Publish(events.AreaHovered{At: g.now(), Area: world.Coord{X: x, Y: y}})
}

// ── UI operations ────────────────────────────────────────────────────────

// SelectTool changes the active tool.
func (g *Game) SelectTool(tool string) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.states.SelectTool(tool) {
		return fail("unknown tool")
	}
	g.bus.Publish(events.ToolSelected{At: g.now(), Tool: tool})
	return ok()
}

// UpdateCamera moves the camera.
func (g *Game) UpdateCamera(x, y, zoom float64) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.states.UpdateCamera(x, y, zoom) {
		return fail("invalid camera state")
	}
	return ok()
}

// ── Batch update ─────────────────────────────────────────────────────────

// Sweep recomputes growth for every crop and expires stale water effects.
// The caller owns the schedule; the engine itself never watches the clock.
func (g *Game) Sweep() farm.SweepResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	res := g.farm.Sweep()
	if res.CropsGrown > 0 || res.WaterExpired > 0 {
		g.bus.Publish(events.ViewRefresh{At: g.now()})
	}
	return res
}

// Reset restores a fresh world: empty maps, origin unlocked, seed balance.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.store.Reset()
	g.land.SeedOrigin()
	g.ledger.Reset()
	g.states.Reset(g.ledger.Balance(), g.store.Tiles(), g.store.Areas())
	g.stats.Reset()
	g.bus.Publish(events.ViewRefresh{At: g.now()})
}

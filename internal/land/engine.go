// Package land implements the area-unlock engine: adjacency eligibility,
// the distance-based cost formula, and the unlock transition itself.
// Funds are the caller's concern; the game facade checks and debits the
// ledger before invoking Unlock.
package land

import (
	"time"

	"github.com/talgya/homestead/internal/config"
	"github.com/talgya/homestead/internal/events"
	"github.com/talgya/homestead/internal/world"
)

// Engine owns the locked/unlocked status of areas. Not safe for concurrent
// use; the game facade serializes access.
type Engine struct {
	store *world.Store
	cfg   *config.Config
	bus   *events.Bus
	now   func() time.Time
}

// NewEngine creates an area engine and unlocks the origin area, which is
// free and seeds purchase eligibility outward.
func NewEngine(store *world.Store, cfg *config.Config, bus *events.Bus, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	e := &Engine{store: store, cfg: cfg, bus: bus, now: now}
	e.SeedOrigin()
	return e
}

// SeedOrigin ensures the origin area exists and is unlocked at zero cost.
// Called at world creation and after a full reset.
func (e *Engine) SeedOrigin() {
	origin := world.Coord{X: 0, Y: 0}
	if a := e.store.Area(origin); a != nil && a.Unlocked {
		return
	}
	e.store.SetArea(&world.Area{
		Coord:      origin,
		Unlocked:   true,
		UnlockedAt: e.now(),
		CostPaid:   0,
	})
}

// Cost returns the unlock price for the area at c. It is a pure function of
// Manhattan distance from the origin; purchase order never changes it.
func (e *Engine) Cost(c world.Coord) int {
	return e.cfg.BaseAreaCost + c.Manhattan()*e.cfg.AreaDistanceCost
}

// Unlocked reports whether the area at c is unlocked.
func (e *Engine) Unlocked(c world.Coord) bool {
	a := e.store.Area(c)
	return a != nil && a.Unlocked
}

// Purchasable reports whether the area at c could be bought: it is locked
// and at least one of its four orthogonal neighbors is unlocked. Diagonal
// adjacency never qualifies, so the unlocked region stays orthogonally
// connected to the origin.
func (e *Engine) Purchasable(c world.Coord) bool {
	if e.Unlocked(c) {
		return false
	}
	for _, n := range c.Neighbors4() {
		if e.Unlocked(n) {
			return true
		}
	}
	return false
}

// Unlock marks the area at c unlocked, stamping the time and price paid.
// Eligibility is re-checked; funds are not (the caller has already spent
// them). On failure nothing is mutated and no event is emitted.
func (e *Engine) Unlock(c world.Coord) (bool, string) {
	if e.Unlocked(c) {
		return false, "area already unlocked"
	}
	if !e.Purchasable(c) {
		return false, "area is not adjacent to unlocked land"
	}

	now := e.now()
	cost := e.Cost(c)
	e.store.SetArea(&world.Area{
		Coord:      c,
		Unlocked:   true,
		UnlockedAt: now,
		CostPaid:   cost,
	})
	e.bus.Publish(events.AreaUnlocked{At: now, Area: c, Cost: cost})
	return true, ""
}

// TileUnlocked reports whether the tile at c lies inside an unlocked area.
func (e *Engine) TileUnlocked(c world.Coord) bool {
	return e.Unlocked(world.AreaOf(c, e.cfg.AreaSize))
}

// Package farm implements the tile and crop engine: planting, enhancements,
// harvesting, and the timestamp-based growth recompute.
//
// Growth is never ticked forward. The current stage is a pure function of
// (now, plantedAt, enhancement status, crop type), so recomputing after any
// amount of elapsed real time — including after save/load or a long idle
// period — lands on the same answer as polling every frame would have.
package farm

import (
	"time"

	"github.com/talgya/homestead/internal/config"
	"github.com/talgya/homestead/internal/events"
	"github.com/talgya/homestead/internal/world"
)

// Engine mutates tiles and crops in the store. Not safe for concurrent use;
// the game facade serializes access.
type Engine struct {
	store *world.Store
	cfg   *config.Config
	bus   *events.Bus
	now   func() time.Time
}

// NewEngine creates a crop engine over the given store. A nil clock
// defaults to time.Now.
func NewEngine(store *world.Store, cfg *config.Config, bus *events.Bus, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, cfg: cfg, bus: bus, now: now}
}

// CanPlant reports whether a crop of the given type could be planted at c,
// with a human-readable reason on failure. It performs no mutation.
func (e *Engine) CanPlant(c world.Coord, crop world.CropType) (bool, string) {
	if _, ok := e.cfg.Crop(string(crop)); !ok {
		return false, "unknown crop type"
	}
	t := e.store.Tile(c)
	if t == nil {
		return false, "tile is not tilled"
	}
	if !t.IsSoil() {
		return false, "tile is not soil"
	}
	if t.Crop != nil {
		return false, "tile already has a crop"
	}
	return true, ""
}

// Plant places a new crop at c. Planting on a currently fertilized tile
// consumes one fertilizer charge. On failure nothing is mutated and no
// event is emitted.
func (e *Engine) Plant(c world.Coord, crop world.CropType) (bool, string) {
	if ok, reason := e.CanPlant(c, crop); !ok {
		return false, reason
	}
	def, _ := e.cfg.Crop(string(crop))
	t := e.store.Tile(c)
	now := e.now()

	if e.fertilizerActive(c, t) {
		t.FertilizerUsed++
	}
	t.Crop = &world.PlantedCrop{
		Type:      crop,
		PlantedAt: now,
		Stage:     0,
		MaxStages: def.MaxStages,
	}

	e.bus.Publish(events.CropPlanted{At: now, Pos: c, Crop: crop})
	return true, ""
}

// Water applies the water enhancement to the soil tile at c. Watering an
// already watered tile restarts its lifetime.
func (e *Engine) Water(c world.Coord) (bool, string) {
	t := e.store.Tile(c)
	if !t.IsSoil() {
		return false, "tile is not soil"
	}
	now := e.now()
	t.Watered = true
	t.WateredAt = now
	e.bus.Publish(events.CropWatered{At: now, Pos: c})
	return true, ""
}

// Fertilize applies the fertilizer enhancement to the soil tile at c,
// resetting the usage counter.
func (e *Engine) Fertilize(c world.Coord) (bool, string) {
	t := e.store.Tile(c)
	if !t.IsSoil() {
		return false, "tile is not soil"
	}
	now := e.now()
	t.Fertilized = true
	t.FertilizedAt = now
	t.FertilizerUsed = 0
	t.FertilizerMax = e.cfg.FertilizerMaxUsage
	e.bus.Publish(events.CropFertilized{At: now, Pos: c})
	return true, ""
}

// Harvest removes the crop at c and returns the reward. Immature crops can
// be harvested early for a reduced, not zero, reward: harvesting is never
// invalid, only less profitable before maturity.
func (e *Engine) Harvest(c world.Coord) (reward int, ok bool, reason string) {
	t := e.store.Tile(c)
	if t == nil || t.Crop == nil {
		return 0, false, "no crop to harvest"
	}

	// Bring the cached stage current before judging maturity.
	e.Recompute(c)

	crop := t.Crop
	def, found := e.cfg.Crop(string(crop.Type))
	if !found {
		return 0, false, "unknown crop type"
	}

	mature := crop.Mature()
	value := float64(def.BaseReward)
	if !mature {
		value *= e.cfg.ImmatureHarvestFactor
	}
	if e.waterActive(c, t) {
		value *= 1 + e.cfg.WaterHarvestBonus
	}
	if e.fertilizerActive(c, t) {
		value *= 1 + e.cfg.FertilizerHarvestBonus
	}
	reward = int(value)

	t.Crop = nil
	e.bus.Publish(events.CropHarvested{
		At:     e.now(),
		Pos:    c,
		Crop:   crop.Type,
		Reward: reward,
		Mature: mature,
	})
	return reward, true, ""
}

// WaterActive reports whether the tile at c currently has an active water
// enhancement. The first query past expiry clears the flag as a side effect
// and emits a tile-changed event.
func (e *Engine) WaterActive(c world.Coord) bool {
	t := e.store.Tile(c)
	if t == nil {
		return false
	}
	return e.waterActive(c, t)
}

func (e *Engine) waterActive(c world.Coord, t *world.Tile) bool {
	if !t.Watered {
		return false
	}
	if e.now().Sub(t.WateredAt) < e.cfg.WaterDuration {
		return true
	}
	t.ClearWater()
	e.bus.Publish(events.TileChanged{At: e.now(), Pos: c, Change: "water_expired"})
	return false
}

// FertilizerActive reports whether the tile at c has fertilizer charges
// remaining. Exhausted fertilizer is cleared lazily, on query.
func (e *Engine) FertilizerActive(c world.Coord) bool {
	t := e.store.Tile(c)
	if t == nil {
		return false
	}
	return e.fertilizerActive(c, t)
}

func (e *Engine) fertilizerActive(c world.Coord, t *world.Tile) bool {
	if !t.Fertilized {
		return false
	}
	if t.FertilizerUsed < t.FertilizerMax {
		return true
	}
	t.ClearFertilizer()
	e.bus.Publish(events.TileChanged{At: e.now(), Pos: c, Change: "fertilizer_exhausted"})
	return false
}

// FertilizerUsage returns the consumed and maximum charge counts for the
// tile at c. Both are zero when no fertilizer is active.
func (e *Engine) FertilizerUsage(c world.Coord) (used, max int) {
	t := e.store.Tile(c)
	if t == nil || !t.Fertilized {
		return 0, 0
	}
	return t.FertilizerUsed, t.FertilizerMax
}

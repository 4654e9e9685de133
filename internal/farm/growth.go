package farm

import (
	"github.com/talgya/homestead/internal/events"
	"github.com/talgya/homestead/internal/world"
)

// Recompute derives the crop stage at c from elapsed wall-clock time and
// commits it to the cache. It is idempotent: with no intervening state
// change, repeated calls at the same instant yield the same stage, and only
// the call that actually moves the cache reports growth and emits an event.
//
// The enhancement multiplier re-times the whole elapsed duration, so
// applying water mid-growth retroactively shortens every stage. The cached
// stage is the floor of the committed value: an expiring enhancement slows
// future growth but never moves a crop backward.
func (e *Engine) Recompute(c world.Coord) (grew bool) {
	t := e.store.Tile(c)
	if t == nil || t.Crop == nil {
		return false
	}
	crop := t.Crop
	def, ok := e.cfg.Crop(string(crop.Type))
	if !ok {
		return false
	}

	target := e.targetStage(c, t, def.GrowTime.Milliseconds(), crop.MaxStages)
	if target <= crop.Stage {
		return false
	}
	crop.Stage = target
	e.bus.Publish(events.CropGrown{
		At:        e.now(),
		Pos:       c,
		Crop:      crop.Type,
		Stage:     crop.Stage,
		MaxStages: crop.MaxStages,
	})
	return true
}

// targetStage computes floor(elapsed / perStage), clamped to the valid
// stage range. perStage = (growTime / multiplier) / maxStages.
func (e *Engine) targetStage(c world.Coord, t *world.Tile, growMs int64, maxStages int) int {
	elapsed := e.now().Sub(t.Crop.PlantedAt).Milliseconds()
	if elapsed < 0 {
		return 0
	}
	perStage := float64(growMs) / e.multiplier(c, t) / float64(maxStages)
	if perStage <= 0 {
		return maxStages - 1
	}
	stage := int(float64(elapsed) / perStage)
	if stage > maxStages-1 {
		stage = maxStages - 1
	}
	return stage
}

// multiplier returns the instantaneous growth multiplier for the tile:
// 1 + water bonus + fertilizer bonus, each counted only while active.
func (e *Engine) multiplier(c world.Coord, t *world.Tile) float64 {
	m := 1.0
	if e.waterActive(c, t) {
		m += e.cfg.WaterBonus
	}
	if e.fertilizerActive(c, t) {
		m += e.cfg.FertilizerBonus
	}
	return m
}

// Progress returns the crop's growth progress at c in [0, 1], where 1 means
// mature. Tiles without a crop report 0.
func (e *Engine) Progress(c world.Coord) float64 {
	t := e.store.Tile(c)
	if t == nil || t.Crop == nil {
		return 0
	}
	def, ok := e.cfg.Crop(string(t.Crop.Type))
	if !ok {
		return 0
	}

	effective := float64(def.GrowTime.Milliseconds()) / e.multiplier(c, t)
	matureAt := effective / float64(t.Crop.MaxStages) * float64(t.Crop.MaxStages-1)
	if matureAt <= 0 {
		return 1
	}
	elapsed := float64(e.now().Sub(t.Crop.PlantedAt).Milliseconds())
	p := elapsed / matureAt
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

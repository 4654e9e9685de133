package farm

import "github.com/talgya/homestead/internal/world"

// SweepResult reports what a batch update touched, for observability.
type SweepResult struct {
	CropsGrown    int `json:"crops_grown"`
	WaterExpired  int `json:"water_expired"`
	CropsChecked  int `json:"crops_checked"`
}

// Sweep recomputes growth for every planted crop and expires stale water
// effects across all tiles. It is the only operation that touches multiple
// tiles in one call. Because stages derive from timestamps, a missed or
// delayed sweep causes no drift: the next one lands on the correct stage
// for the actual elapsed time.
func (e *Engine) Sweep() SweepResult {
	var res SweepResult
	e.store.EachTile(func(c world.Coord, t *world.Tile) {
		if t.Watered && !e.waterActive(c, t) {
			res.WaterExpired++
		}
		if t.Crop == nil {
			return
		}
		res.CropsChecked++
		if e.Recompute(c) {
			res.CropsGrown++
		}
	})
	return res
}

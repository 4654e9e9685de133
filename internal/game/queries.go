package game

import (
	"time"

	"github.com/talgya/homestead/internal/economy"
	"github.com/talgya/homestead/internal/state"
	"github.com/talgya/homestead/internal/world"
)

// Query surface for input and rendering collaborators. Reads returning
// tiles or areas hand out clones so callers cannot mutate engine state.

// GetTile returns a copy of the tile at (x, y), or nil when undeveloped.
func (g *Game) GetTile(x, y int) *world.Tile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.Tile(world.Coord{X: x, Y: y}).Clone()
}

// GetArea returns a copy of the area record at (x, y), or nil when the area
// was never created (implicitly locked).
func (g *Game) GetArea(x, y int) *world.Area {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.Area(world.Coord{X: x, Y: y}).Clone()
}

// IsTileUnlocked reports whether the tile at (x, y) is inside an unlocked area.
func (g *Game) IsTileUnlocked(x, y int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.land.TileUnlocked(world.Coord{X: x, Y: y})
}

// AreaCost returns the unlock price for the area at (x, y).
func (g *Game) AreaCost(x, y int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.land.Cost(world.Coord{X: x, Y: y})
}

// AreaPurchasable reports whether the area at (x, y) could be bought now.
func (g *Game) AreaPurchasable(x, y int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.land.Purchasable(world.Coord{X: x, Y: y})
}

// CropProgress returns growth progress in [0, 1] for the crop at (x, y).
func (g *Game) CropProgress(x, y int) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.farm.Progress(world.Coord{X: x, Y: y})
}

// FertilizerUsage returns the consumed and maximum fertilizer charges for
// the tile at (x, y).
func (g *Game) FertilizerUsage(x, y int) (used, max int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.farm.FertilizerUsage(world.Coord{X: x, Y: y})
}

// Balance returns the current coin balance.
func (g *Game) Balance() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.Balance()
}

// LedgerHistory returns a copy of the retained transaction history.
func (g *Game) LedgerHistory() []economy.Entry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.History()
}

// SelectedTool returns the active tool.
func (g *Game) SelectedTool() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.states.SelectedTool()
}

// Stats returns the lifetime event counters.
func (g *Game) Stats() state.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats.Snapshot()
}

// Summary aggregates the snapshot selectors for status displays.
type Summary struct {
	Coins         int       `json:"coins"`
	Tiles         int       `json:"tiles"`
	Roads         int       `json:"roads"`
	Crops         int       `json:"crops"`
	MatureCrops   int       `json:"mature_crops"`
	CropProgress  float64   `json:"crop_progress"`
	WateredTiles  int       `json:"watered_tiles"`
	UnlockedAreas int       `json:"unlocked_areas"`
	SelectedTool  string    `json:"selected_tool"`
	StartedAt     time.Time `json:"started_at"`
	LastSavedAt   time.Time `json:"last_saved_at,omitzero"`
}

// Summarize projects the current snapshot into a Summary.
func (g *Game) Summarize() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.states.Snapshot()
	return Summary{
		Coins:         s.Coins,
		Tiles:         state.TileCount(s),
		Roads:         state.RoadCount(s),
		Crops:         state.CropCount(s),
		MatureCrops:   state.MatureCropCount(s),
		CropProgress:  state.AverageCropProgress(s),
		WateredTiles:  state.WateredTileCount(s),
		UnlockedAreas: state.UnlockedAreaCount(s),
		SelectedTool:  s.SelectedTool,
		StartedAt:     s.StartedAt,
		LastSavedAt:   s.LastSavedAt,
	}
}

// AllTiles returns a deep copy of the developed tile map.
func (g *Game) AllTiles() map[string]*world.Tile {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]*world.Tile, g.store.TileCount())
	g.store.EachTile(func(c world.Coord, t *world.Tile) {
		out[c.Key()] = t.Clone()
	})
	return out
}

// AllAreas returns a deep copy of the stored area map.
func (g *Game) AllAreas() map[string]*world.Area {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]*world.Area, g.store.AreaCount())
	g.store.EachArea(func(a *world.Area) {
		out[a.Coord.Key()] = a.Clone()
	})
	return out
}

// GroundShade returns the deterministic cosmetic ground shade for (x, y).
func (g *Game) GroundShade(x, y int) float64 {
	return g.ground.Shade(world.Coord{X: x, Y: y})
}

// GroundMoisture returns the deterministic cosmetic moisture hint for (x, y).
func (g *Game) GroundMoisture(x, y int) float64 {
	return g.ground.Moisture(world.Coord{X: x, Y: y})
}

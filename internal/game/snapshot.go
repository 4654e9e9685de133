package game

import (
	"fmt"
	"time"

	"github.com/talgya/homestead/internal/economy"
	"github.com/talgya/homestead/internal/world"
)

// WorldState is a deep copy of everything a save needs. Exported copies are
// detached from the live maps, so a save can marshal them without holding
// the game lock.
type WorldState struct {
	Tiles   map[string]*world.Tile
	Areas   map[string]*world.Area
	Coins   int
	Ledger  []economy.Entry
	SavedAt time.Time
}

// ExportState snapshots the whole world for saving and stamps the
// last-save time.
func (g *Game) ExportState() WorldState {
	g.mu.Lock()
	defer g.mu.Unlock()

	ws := g.exportLocked()
	g.states.MarkSaved(ws.SavedAt)
	return ws
}

// SnapshotState returns the same deep copy without stamping the last-save
// time. Read-only callers (the download endpoint) use this so observing the
// world never mutates snapshot metadata.
func (g *Game) SnapshotState() WorldState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.exportLocked()
}

func (g *Game) exportLocked() WorldState {
	tiles := make(map[string]*world.Tile, g.store.TileCount())
	g.store.EachTile(func(c world.Coord, t *world.Tile) {
		tiles[c.Key()] = t.Clone()
	})
	areas := make(map[string]*world.Area, g.store.AreaCount())
	g.store.EachArea(func(a *world.Area) {
		areas[a.Coord.Key()] = a.Clone()
	})

	return WorldState{
		Tiles:   tiles,
		Areas:   areas,
		Coins:   g.ledger.Balance(),
		Ledger:  g.ledger.History(),
		SavedAt: g.now(),
	}
}

// RestoreState replaces the live world with ws. The incoming maps are
// validated first; a structurally invalid payload leaves the live state
// untouched. On success the whole-map swap goes through the state manager.
func (g *Game) RestoreState(ws WorldState) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ws.Coins < 0 {
		return fmt.Errorf("restore: negative coin balance %d", ws.Coins)
	}
	tiles := make(map[string]*world.Tile, len(ws.Tiles))
	for key, t := range ws.Tiles {
		if _, err := world.ParseKey(key); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		if !t.Valid() {
			return fmt.Errorf("restore: invalid tile at %s", key)
		}
		tiles[key] = t.Clone()
	}
	areas := make(map[string]*world.Area, len(ws.Areas))
	for key, a := range ws.Areas {
		if _, err := world.ParseKey(key); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		if !a.Valid() {
			return fmt.Errorf("restore: invalid area at %s", key)
		}
		areas[key] = a.Clone()
	}

	g.store.ReplaceTiles(tiles)
	g.store.ReplaceAreas(areas)
	g.land.SeedOrigin()
	g.ledger.Restore(ws.Coins, ws.Ledger)

	if !g.states.SetTiles(g.store.Tiles()) || !g.states.SetAreas(g.store.Areas()) {
		// Validation above makes this unreachable; guard anyway.
		return fmt.Errorf("restore: snapshot rejected by state manager")
	}
	g.states.SetCoins(g.ledger.Balance())
	// Session counters describe the world they were collected in; they do
	// not survive into a restored one.
	g.stats.Reset()
	return nil
}

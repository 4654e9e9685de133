package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/homestead/internal/game"
	"github.com/talgya/homestead/internal/world"
)

// SaveVersion identifies the current save-file schema.
const SaveVersion = "1.0"

// SaveFile is the portable JSON save format used for export and import.
type SaveFile struct {
	Version   string         `json:"version"`
	Timestamp int64          `json:"timestamp"`
	GameState SavedGameState `json:"gameState"`
	Tiles     []SavedTile    `json:"tiles"`
	Areas     []SavedArea    `json:"areas"`
}

// SavedGameState carries the aggregate fields.
type SavedGameState struct {
	Coins int `json:"coins"`
}

// SavedTile pairs a coordinate with its tile record.
type SavedTile struct {
	X    int        `json:"x"`
	Y    int        `json:"y"`
	Data world.Tile `json:"data"`
}

// SavedArea pairs a coordinate with its area record.
type SavedArea struct {
	X    int        `json:"x"`
	Y    int        `json:"y"`
	Data world.Area `json:"data"`
}

// ExportJSON serializes the exported world state into the portable format.
// The ledger history stays in the database; the save file carries only the
// balance, matching the logical snapshot shape.
func ExportJSON(ws game.WorldState) ([]byte, error) {
	sf := SaveFile{
		Version:   SaveVersion,
		Timestamp: ws.SavedAt.UnixMilli(),
		GameState: SavedGameState{Coins: ws.Coins},
	}
	for key, t := range ws.Tiles {
		c, err := world.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		sf.Tiles = append(sf.Tiles, SavedTile{X: c.X, Y: c.Y, Data: *t})
	}
	for key, a := range ws.Areas {
		c, err := world.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		sf.Areas = append(sf.Areas, SavedArea{X: c.X, Y: c.Y, Data: areaNormalized(a, c)})
	}
	return json.MarshalIndent(sf, "", "  ")
}

// areaNormalized pins the area's embedded coordinate to its map position.
func areaNormalized(a *world.Area, c world.Coord) world.Area {
	cp := *a
	cp.Coord = c
	return cp
}

// ImportJSON decodes a portable save file into a WorldState, tolerating a
// version mismatch by best-effort field-by-field decoding: unknown fields
// are ignored and missing optional fields take zero values. A structurally
// invalid payload fails without producing a partial state, so the caller's
// live world is never mutated.
func ImportJSON(data []byte) (game.WorldState, error) {
	var ws game.WorldState

	var sf SaveFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return ws, fmt.Errorf("import: malformed save file: %w", err)
	}
	if sf.Version != SaveVersion {
		slog.Warn("save file version mismatch, attempting field-by-field migration",
			"file_version", sf.Version, "current", SaveVersion)
	}
	if sf.GameState.Coins < 0 {
		return ws, fmt.Errorf("import: negative coin balance %d", sf.GameState.Coins)
	}

	ws.Tiles = make(map[string]*world.Tile, len(sf.Tiles))
	for _, st := range sf.Tiles {
		t := st.Data
		if t.Kind == world.TileRoad && (t.Crop != nil || t.Watered || t.Fertilized) {
			// Older files could hold crops on roads; scrub rather than reject.
			slog.Warn("scrubbing crop/enhancement state from road tile", "x", st.X, "y", st.Y)
			t.ConvertToRoad()
		}
		if !t.Valid() {
			return ws, fmt.Errorf("import: invalid tile at (%d,%d)", st.X, st.Y)
		}
		ws.Tiles[world.Coord{X: st.X, Y: st.Y}.Key()] = &t
	}

	ws.Areas = make(map[string]*world.Area, len(sf.Areas))
	for _, sa := range sf.Areas {
		a := sa.Data
		a.Coord = world.Coord{X: sa.X, Y: sa.Y}
		if !a.Valid() {
			return ws, fmt.Errorf("import: invalid area at (%d,%d)", sa.X, sa.Y)
		}
		ws.Areas[a.Coord.Key()] = &a
	}

	ws.Coins = sf.GameState.Coins
	ws.SavedAt = time.UnixMilli(sf.Timestamp)
	return ws, nil
}

// Package state owns the authoritative game snapshot: UI and camera fields,
// the coin balance mirror, the tile and area maps, and world metadata.
// Every mutation clones the current snapshot, applies validated updates,
// re-validates the result, and only then commits; an invalid result is
// rejected and the prior snapshot retained.
package state

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/homestead/internal/events"
	"github.com/talgya/homestead/internal/world"
)

// Zoom bounds for the camera.
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// Tools selectable by the input layer.
var ValidTools = map[string]bool{
	"select":     true,
	"till":       true,
	"road":       true,
	"plant":      true,
	"water":      true,
	"fertilizer": true,
	"harvest":    true,
	"clear":      true,
}

// GameState is one consistent snapshot of the aggregate state. The tile and
// area maps reference the live store maps; engines mutate individual
// entries in place, and only the manager may swap whole maps (on load).
type GameState struct {
	CameraX      float64 `json:"camera_x"`
	CameraY      float64 `json:"camera_y"`
	Zoom         float64 `json:"zoom"`
	SelectedTool string  `json:"selected_tool"`

	Coins int `json:"coins"`

	Tiles map[string]*world.Tile `json:"-"`
	Areas map[string]*world.Area `json:"-"`

	StartedAt   time.Time `json:"started_at"`
	LastSavedAt time.Time `json:"last_saved_at,omitzero"`
}

// clone returns a shallow copy: scalar fields copied, map references shared.
// Map swaps go through SetTiles/SetAreas, which replace the reference on the
// clone before the commit.
func (s *GameState) clone() *GameState {
	cp := *s
	return &cp
}

// Manager guards the current snapshot. Readers get the committed snapshot
// pointer and must treat it as read-only.
type Manager struct {
	cur *GameState
	now func() time.Time
}

// NewManager creates a manager with an initial validated snapshot over the
// given live maps.
func NewManager(startingCoins int, tiles map[string]*world.Tile, areas map[string]*world.Area, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	m := &Manager{now: now}
	m.cur = &GameState{
		Zoom:         1.0,
		SelectedTool: "select",
		Coins:        startingCoins,
		Tiles:        tiles,
		Areas:        areas,
		StartedAt:    now(),
	}
	return m
}

// Snapshot returns the current committed snapshot.
func (m *Manager) Snapshot() *GameState {
	return m.cur
}

// commit validates next and swaps it in. On validation failure the prior
// snapshot is retained and the attempted mutation logged.
func (m *Manager) commit(op string, next *GameState) bool {
	if err := next.validate(); err != nil {
		slog.Error("state mutation rejected", "op", op, "error", err)
		return false
	}
	m.cur = next
	return true
}

func (s *GameState) validate() error {
	if s.Tiles == nil {
		return fmt.Errorf("tiles map is nil")
	}
	if s.Areas == nil {
		return fmt.Errorf("areas map is nil")
	}
	if s.Coins < 0 {
		return fmt.Errorf("coins negative: %d", s.Coins)
	}
	if s.Zoom < MinZoom || s.Zoom > MaxZoom {
		return fmt.Errorf("zoom %.3f outside [%v, %v]", s.Zoom, MinZoom, MaxZoom)
	}
	if !ValidTools[s.SelectedTool] {
		return fmt.Errorf("unknown tool %q", s.SelectedTool)
	}
	return nil
}

// UpdateCamera moves the camera and adjusts zoom.
func (m *Manager) UpdateCamera(x, y, zoom float64) bool {
	next := m.cur.clone()
	next.CameraX = x
	next.CameraY = y
	next.Zoom = zoom
	return m.commit("update_camera", next)
}

// SelectTool changes the active tool.
func (m *Manager) SelectTool(tool string) bool {
	next := m.cur.clone()
	next.SelectedTool = tool
	return m.commit("select_tool", next)
}

// SelectedTool returns the active tool.
func (m *Manager) SelectedTool() string {
	return m.cur.SelectedTool
}

// SpendCoins debits the snapshot's coin mirror. Fails when the result would
// go negative.
func (m *Manager) SpendCoins(amount int) bool {
	if amount < 0 {
		return false
	}
	next := m.cur.clone()
	next.Coins -= amount
	return m.commit("spend_coins", next)
}

// EarnCoins credits the snapshot's coin mirror.
func (m *Manager) EarnCoins(amount int) bool {
	if amount < 0 {
		return false
	}
	next := m.cur.clone()
	next.Coins += amount
	return m.commit("earn_coins", next)
}

// SetCoins overwrites the coin mirror, as when replaying a ledger event.
func (m *Manager) SetCoins(amount int) bool {
	next := m.cur.clone()
	next.Coins = amount
	return m.commit("set_coins", next)
}

// SetTiles swaps in a whole new tile map, as happens on load.
func (m *Manager) SetTiles(tiles map[string]*world.Tile) bool {
	next := m.cur.clone()
	next.Tiles = tiles
	return m.commit("set_tiles", next)
}

// SetAreas swaps in a whole new area map.
func (m *Manager) SetAreas(areas map[string]*world.Area) bool {
	next := m.cur.clone()
	next.Areas = areas
	return m.commit("set_areas", next)
}

// MarkSaved stamps the last-save time.
func (m *Manager) MarkSaved(t time.Time) bool {
	next := m.cur.clone()
	next.LastSavedAt = t
	return m.commit("mark_saved", next)
}

// Reset restores a fresh snapshot over the given live maps.
func (m *Manager) Reset(startingCoins int, tiles map[string]*world.Tile, areas map[string]*world.Area) bool {
	next := &GameState{
		Zoom:         1.0,
		SelectedTool: "select",
		Coins:        startingCoins,
		Tiles:        tiles,
		Areas:        areas,
		StartedAt:    m.now(),
	}
	return m.commit("reset", next)
}

// BindBus keeps the snapshot's coin mirror current by observing ledger
// events. Returns the unsubscribe function.
func (m *Manager) BindBus(bus *events.Bus) func() {
	return bus.Subscribe(events.KindCoinsChanged, func(ev events.Event) {
		if cc, ok := ev.(events.CoinsChanged); ok {
			m.SetCoins(cc.NewAmount)
		}
	})
}

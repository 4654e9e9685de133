package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/homestead/internal/events"
	"github.com/talgya/homestead/internal/world"
)

func newManager(t *testing.T, coins int) *Manager {
	t.Helper()
	return NewManager(coins, map[string]*world.Tile{}, map[string]*world.Area{}, nil)
}

func TestInitialSnapshot(t *testing.T) {
	m := newManager(t, 500)
	s := m.Snapshot()

	assert.Equal(t, 500, s.Coins)
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, "select", s.SelectedTool)
	assert.False(t, s.StartedAt.IsZero())
	assert.True(t, s.LastSavedAt.IsZero())
}

func TestCommitRejectionRetainsPriorSnapshot(t *testing.T) {
	m := newManager(t, 100)
	before := m.Snapshot()

	// Overspending would make the mirror negative.
	assert.False(t, m.SpendCoins(200))
	assert.Same(t, before, m.Snapshot())
	assert.Equal(t, 100, m.Snapshot().Coins)

	// Zoom out of bounds.
	assert.False(t, m.UpdateCamera(0, 0, 100))
	assert.Same(t, before, m.Snapshot())

	// Unknown tool.
	assert.False(t, m.SelectTool("bulldozer"))
	assert.Same(t, before, m.Snapshot())
	assert.Equal(t, "select", m.SelectedTool())

	// Nil map swap.
	assert.False(t, m.SetTiles(nil))
	assert.Same(t, before, m.Snapshot())
}

func TestCommitSwapsSnapshot(t *testing.T) {
	m := newManager(t, 100)
	before := m.Snapshot()

	require.True(t, m.SpendCoins(30))
	require.True(t, m.EarnCoins(10))
	after := m.Snapshot()

	assert.NotSame(t, before, after)
	assert.Equal(t, 80, after.Coins)
	// The rejected-or-prior snapshot is immutable history.
	assert.Equal(t, 100, before.Coins)
}

func TestCameraAndTool(t *testing.T) {
	m := newManager(t, 0)

	require.True(t, m.UpdateCamera(12.5, -3, 2.0))
	s := m.Snapshot()
	assert.Equal(t, 12.5, s.CameraX)
	assert.Equal(t, -3.0, s.CameraY)
	assert.Equal(t, 2.0, s.Zoom)

	require.True(t, m.SelectTool("plant"))
	assert.Equal(t, "plant", m.SelectedTool())
}

func TestMarkSaved(t *testing.T) {
	m := newManager(t, 0)
	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.True(t, m.MarkSaved(when))
	assert.Equal(t, when, m.Snapshot().LastSavedAt)
}

func TestResetKeepsNewMaps(t *testing.T) {
	m := newManager(t, 100)
	require.True(t, m.SelectTool("harvest"))
	require.True(t, m.SpendCoins(40))

	tiles := map[string]*world.Tile{"0,0": world.NewSoil()}
	areas := map[string]*world.Area{}
	require.True(t, m.Reset(500, tiles, areas))

	s := m.Snapshot()
	assert.Equal(t, 500, s.Coins)
	assert.Equal(t, "select", s.SelectedTool)
	assert.Len(t, s.Tiles, 1)
}

func TestBindBusMirrorsCoins(t *testing.T) {
	m := newManager(t, 500)
	bus := events.NewBus()
	unsub := m.BindBus(bus)

	bus.Publish(events.CoinsChanged{
		At: time.Now(), OldAmount: 500, NewAmount: 420, Delta: -80, Reason: "seed: tomato",
	})
	assert.Equal(t, 420, m.Snapshot().Coins)

	unsub()
	bus.Publish(events.CoinsChanged{
		At: time.Now(), OldAmount: 420, NewAmount: 9999, Delta: 9579, Reason: "harvest",
	})
	assert.Equal(t, 420, m.Snapshot().Coins)
}

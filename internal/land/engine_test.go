package land

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/homestead/internal/config"
	"github.com/talgya/homestead/internal/events"
	"github.com/talgya/homestead/internal/world"
)

func newEngine(t *testing.T) (*Engine, *world.Store, *events.Bus) {
	t.Helper()
	store := world.NewStore()
	bus := events.NewBus()
	cfg := config.Default()
	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewEngine(store, &cfg, bus, func() time.Time { return when }), store, bus
}

func TestOriginSeededFree(t *testing.T) {
	e, store, _ := newEngine(t)

	origin := world.Coord{X: 0, Y: 0}
	assert.True(t, e.Unlocked(origin))
	a := store.Area(origin)
	require.NotNil(t, a)
	assert.Zero(t, a.CostPaid)
	assert.False(t, a.UnlockedAt.IsZero())
}

func TestCostIsPureDistanceFunction(t *testing.T) {
	e, _, _ := newEngine(t)

	// cost = 100 + 50 × manhattan, independent of purchase order or sign.
	assert.Equal(t, 100, e.Cost(world.Coord{X: 0, Y: 0}))
	assert.Equal(t, 150, e.Cost(world.Coord{X: 1, Y: 0}))
	assert.Equal(t, 150, e.Cost(world.Coord{X: 0, Y: -1}))
	assert.Equal(t, 350, e.Cost(world.Coord{X: -2, Y: 3}))

	before := e.Cost(world.Coord{X: 2, Y: 0})
	ok, _ := e.Unlock(world.Coord{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, before, e.Cost(world.Coord{X: 2, Y: 0}))
}

func TestPurchasableOrthogonalOnly(t *testing.T) {
	e, _, _ := newEngine(t)

	// Only the origin is unlocked: its four orthogonal neighbors qualify.
	assert.True(t, e.Purchasable(world.Coord{X: 1, Y: 0}))
	assert.True(t, e.Purchasable(world.Coord{X: -1, Y: 0}))
	assert.True(t, e.Purchasable(world.Coord{X: 0, Y: 1}))
	assert.True(t, e.Purchasable(world.Coord{X: 0, Y: -1}))

	// Diagonal and distant areas do not.
	assert.False(t, e.Purchasable(world.Coord{X: 1, Y: 1}))
	assert.False(t, e.Purchasable(world.Coord{X: 5, Y: 5}))

	// Unlocked areas are never purchasable.
	assert.False(t, e.Purchasable(world.Coord{X: 0, Y: 0}))
}

func TestUnlockExpandsFrontier(t *testing.T) {
	e, store, bus := newEngine(t)
	var unlocked []events.AreaUnlocked
	bus.Subscribe(events.KindAreaUnlocked, func(ev events.Event) {
		unlocked = append(unlocked, ev.(events.AreaUnlocked))
	})

	c := world.Coord{X: 1, Y: 0}
	ok, reason := e.Unlock(c)
	require.True(t, ok, reason)
	assert.True(t, e.Unlocked(c))
	assert.Equal(t, 150, store.Area(c).CostPaid)

	require.Len(t, unlocked, 1)
	assert.Equal(t, c, unlocked[0].Area)
	assert.Equal(t, 150, unlocked[0].Cost)

	// The diagonal (1,1) becomes reachable through the new area.
	assert.True(t, e.Purchasable(world.Coord{X: 1, Y: 1}))
}

func TestUnlockFailures(t *testing.T) {
	e, _, bus := newEngine(t)
	var fired int
	bus.Subscribe(events.KindAreaUnlocked, func(events.Event) { fired++ })

	ok, reason := e.Unlock(world.Coord{X: 0, Y: 0})
	assert.False(t, ok)
	assert.Equal(t, "area already unlocked", reason)

	ok, reason = e.Unlock(world.Coord{X: 5, Y: 5})
	assert.False(t, ok)
	assert.Equal(t, "area is not adjacent to unlocked land", reason)

	assert.Zero(t, fired)
}

func TestTileUnlocked(t *testing.T) {
	e, _, _ := newEngine(t)

	// Origin area covers tiles [0,10) × [0,10).
	assert.True(t, e.TileUnlocked(world.Coord{X: 0, Y: 0}))
	assert.True(t, e.TileUnlocked(world.Coord{X: 9, Y: 9}))
	assert.False(t, e.TileUnlocked(world.Coord{X: 10, Y: 0}))
	assert.False(t, e.TileUnlocked(world.Coord{X: -1, Y: 0}))

	require.True(t, e.Unlocked(world.Coord{X: 0, Y: 0}))
	ok, _ := e.Unlock(world.Coord{X: -1, Y: 0})
	require.True(t, ok)
	assert.True(t, e.TileUnlocked(world.Coord{X: -1, Y: 0}))
	assert.True(t, e.TileUnlocked(world.Coord{X: -10, Y: 5}))
}

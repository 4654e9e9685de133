package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/homestead/internal/config"
	"github.com/talgya/homestead/internal/events"
	"github.com/talgya/homestead/internal/world"
)

type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newGame(t *testing.T) (*Game, *testClock) {
	t.Helper()
	clk := newTestClock()
	return NewWithClock(config.Default(), clk.Now, 1), clk
}

func TestNewGameStartsAtOrigin(t *testing.T) {
	g, _ := newGame(t)

	assert.Equal(t, 500, g.Balance())
	assert.True(t, g.IsTileUnlocked(0, 0))
	assert.True(t, g.IsTileUnlocked(9, 9))
	assert.False(t, g.IsTileUnlocked(10, 0))
	assert.Equal(t, "select", g.SelectedTool())
}

func TestTillSoil(t *testing.T) {
	g, _ := newGame(t)

	require.True(t, g.TillSoil(3, 4).OK)
	tile := g.GetTile(3, 4)
	require.NotNil(t, tile)
	assert.Equal(t, world.TileSoil, tile.Kind)

	res := g.TillSoil(3, 4)
	assert.False(t, res.OK)
	assert.Equal(t, "tile already developed", res.Reason)

	res = g.TillSoil(50, 50)
	assert.False(t, res.OK)
	assert.Equal(t, "tile is in locked area", res.Reason)
}

func TestBuildRoadConvertsSoil(t *testing.T) {
	g, _ := newGame(t)
	require.True(t, g.TillSoil(1, 1).OK)
	require.True(t, g.PlantCrop(1, 1, "wheat").OK)

	require.True(t, g.BuildRoad(1, 1).OK)
	tile := g.GetTile(1, 1)
	assert.Equal(t, world.TileRoad, tile.Kind)
	assert.Nil(t, tile.Crop)

	res := g.BuildRoad(1, 1)
	assert.False(t, res.OK)
	assert.Equal(t, "tile is already a road", res.Reason)
}

func TestClearTile(t *testing.T) {
	g, _ := newGame(t)
	require.True(t, g.TillSoil(2, 2).OK)

	require.True(t, g.ClearTile(2, 2).OK)
	assert.Nil(t, g.GetTile(2, 2))

	res := g.ClearTile(2, 2)
	assert.False(t, res.OK)
	assert.Equal(t, "nothing to clear", res.Reason)
}

func TestPlantCropSpendsSeed(t *testing.T) {
	g, _ := newGame(t)
	require.True(t, g.TillSoil(0, 0).OK)

	require.True(t, g.PlantCrop(0, 0, "wheat").OK)
	assert.Equal(t, 490, g.Balance())

	history := g.LedgerHistory()
	require.NotEmpty(t, history)
	assert.Equal(t, "seed: wheat", history[len(history)-1].Reason)
}

func TestPlantCropFailureNeverTouchesLedger(t *testing.T) {
	g, _ := newGame(t)
	require.True(t, g.TillSoil(0, 0).OK)
	before := g.Balance()
	entries := len(g.LedgerHistory())

	assert.False(t, g.PlantCrop(5, 5, "wheat").OK)       // undeveloped
	assert.False(t, g.PlantCrop(0, 0, "kudzu").OK)       // unknown crop
	assert.False(t, g.PlantCrop(20, 20, "wheat").OK)     // locked area
	require.True(t, g.PlantCrop(0, 0, "wheat").OK)       // occupy the tile
	assert.False(t, g.PlantCrop(0, 0, "corn").OK)        // occupied

	assert.Equal(t, before-10, g.Balance())
	assert.Len(t, g.LedgerHistory(), entries+1)
}

func TestPlantCropInsufficientFunds(t *testing.T) {
	cfg := config.Default()
	cfg.StartingBalance = 5
	clk := newTestClock()
	g := NewWithClock(cfg, clk.Now, 1)
	require.True(t, g.TillSoil(0, 0).OK)

	res := g.PlantCrop(0, 0, "wheat")
	assert.False(t, res.OK)
	assert.Equal(t, "insufficient funds", res.Reason)
	assert.Equal(t, 5, g.Balance())
	assert.Nil(t, g.GetTile(0, 0).Crop)
}

func TestHarvestEarnsReward(t *testing.T) {
	g, clk := newGame(t)
	require.True(t, g.TillSoil(0, 0).OK)
	require.True(t, g.PlantCrop(0, 0, "wheat").OK)
	require.Equal(t, 490, g.Balance())

	clk.Advance(time.Minute)
	res := g.HarvestCrop(0, 0)
	require.True(t, res.OK)
	assert.Equal(t, 20, res.Reward)
	assert.Equal(t, 510, g.Balance())
	assert.Nil(t, g.GetTile(0, 0).Crop)

	res = g.HarvestCrop(0, 0)
	assert.False(t, res.OK)
	assert.Equal(t, "no crop to harvest", res.Reason)
}

func TestWaterAndFertilize(t *testing.T) {
	g, _ := newGame(t)
	require.True(t, g.TillSoil(0, 0).OK)

	require.True(t, g.WaterTile(0, 0).OK)
	require.True(t, g.FertilizeTile(0, 0).OK)
	tile := g.GetTile(0, 0)
	assert.True(t, tile.Watered)
	assert.True(t, tile.Fertilized)

	assert.False(t, g.WaterTile(5, 5).OK)
	assert.False(t, g.FertilizeTile(5, 5).OK)

	require.True(t, g.PlantCrop(0, 0, "wheat").OK)
	used, max := g.FertilizerUsage(0, 0)
	assert.Equal(t, 1, used)
	assert.Equal(t, 3, max)
}

func TestPurchaseAreaHappyPath(t *testing.T) {
	g, _ := newGame(t)
	var attempts []events.PurchaseAttempted
	g.Bus().Subscribe(events.KindPurchaseAttempted, func(ev events.Event) {
		attempts = append(attempts, ev.(events.PurchaseAttempted))
	})

	require.Equal(t, 150, g.AreaCost(1, 0))
	require.True(t, g.PurchaseArea(1, 0).OK)
	assert.Equal(t, 350, g.Balance())
	assert.True(t, g.IsTileUnlocked(10, 0))

	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Success)
	assert.Equal(t, 150, attempts[0].Cost)
}

func TestPurchaseAreaFailuresLeaveLedgerUntouched(t *testing.T) {
	g, _ := newGame(t)
	var attempts []events.PurchaseAttempted
	g.Bus().Subscribe(events.KindPurchaseAttempted, func(ev events.Event) {
		attempts = append(attempts, ev.(events.PurchaseAttempted))
	})
	entries := len(g.LedgerHistory())

	res := g.PurchaseArea(0, 0)
	assert.False(t, res.OK)
	assert.Equal(t, "area already unlocked", res.Reason)

	res = g.PurchaseArea(5, 5)
	assert.False(t, res.OK)
	assert.Equal(t, "area is not adjacent to unlocked land", res.Reason)

	// (0,3) is adjacent once (0,1) and (0,2) are owned, but 500 coins only
	// stretch to the first two purchases (150 + 200).
	require.True(t, g.PurchaseArea(0, 1).OK)
	require.True(t, g.PurchaseArea(0, 2).OK)
	require.Equal(t, 150, g.Balance())
	res = g.PurchaseArea(0, 3)
	assert.False(t, res.OK)
	assert.Equal(t, "insufficient funds", res.Reason)

	assert.Equal(t, 150, g.Balance())
	assert.Len(t, g.LedgerHistory(), entries+2)

	require.Len(t, attempts, 5)
	assert.Equal(t, "area already unlocked", attempts[0].Reason)
	assert.Equal(t, "area is not adjacent to unlocked land", attempts[1].Reason)
	assert.Equal(t, "insufficient funds", attempts[4].Reason)
}

func TestSelectToolAndCamera(t *testing.T) {
	g, _ := newGame(t)

	require.True(t, g.SelectTool("water").OK)
	assert.Equal(t, "water", g.SelectedTool())

	res := g.SelectTool("excavator")
	assert.False(t, res.OK)
	assert.Equal(t, "water", g.SelectedTool())

	require.True(t, g.UpdateCamera(4, 8, 2).OK)
	assert.False(t, g.UpdateCamera(0, 0, 0.01).OK)
}

func TestSweepPublishesViewRefresh(t *testing.T) {
	g, clk := newGame(t)
	var refreshes int
	g.Bus().Subscribe(events.KindViewRefresh, func(events.Event) { refreshes++ })

	require.True(t, g.TillSoil(0, 0).OK)
	require.True(t, g.PlantCrop(0, 0, "wheat").OK)

	// Nothing elapsed: quiet sweep.
	res := g.Sweep()
	assert.Zero(t, res.CropsGrown)
	assert.Zero(t, refreshes)

	clk.Advance(2 * time.Second)
	res = g.Sweep()
	assert.Equal(t, 1, res.CropsGrown)
	assert.Equal(t, 1, refreshes)
}

func TestSummarize(t *testing.T) {
	g, _ := newGame(t)
	require.True(t, g.TillSoil(0, 0).OK)
	require.True(t, g.TillSoil(0, 1).OK)
	require.True(t, g.BuildRoad(1, 0).OK)
	require.True(t, g.PlantCrop(0, 0, "wheat").OK)
	require.True(t, g.WaterTile(0, 1).OK)

	s := g.Summarize()
	assert.Equal(t, 490, s.Coins)
	assert.Equal(t, 3, s.Tiles)
	assert.Equal(t, 1, s.Roads)
	assert.Equal(t, 1, s.Crops)
	assert.Equal(t, 1, s.WateredTiles)
	assert.Equal(t, 1, s.UnlockedAreas)
}

func TestResetRestoresFreshWorld(t *testing.T) {
	g, _ := newGame(t)
	require.True(t, g.TillSoil(0, 0).OK)
	require.True(t, g.PlantCrop(0, 0, "wheat").OK)
	require.True(t, g.PurchaseArea(1, 0).OK)

	g.Reset()

	assert.Equal(t, 500, g.Balance())
	assert.Nil(t, g.GetTile(0, 0))
	assert.True(t, g.IsTileUnlocked(0, 0))
	assert.False(t, g.IsTileUnlocked(10, 0))
	assert.Zero(t, g.Stats().CropsPlanted)
	assert.Empty(t, g.LedgerHistory())
}

func TestQueryClonesAreDetached(t *testing.T) {
	g, _ := newGame(t)
	require.True(t, g.TillSoil(0, 0).OK)
	require.True(t, g.PlantCrop(0, 0, "wheat").OK)

	// Mutating a returned clone must not leak into engine state.
	tile := g.GetTile(0, 0)
	tile.Crop = nil
	tile.Kind = world.TileRoad
	assert.NotNil(t, g.GetTile(0, 0).Crop)

	tiles := g.AllTiles()
	tiles["0,0"].Crop = nil
	assert.NotNil(t, g.GetTile(0, 0).Crop)
}

func TestGroundFieldDeterministic(t *testing.T) {
	g1 := NewWithClock(config.Default(), newTestClock().Now, 42)
	g2 := NewWithClock(config.Default(), newTestClock().Now, 42)

	assert.Equal(t, g1.GroundShade(7, -3), g2.GroundShade(7, -3))
	assert.Equal(t, g1.GroundMoisture(7, -3), g2.GroundMoisture(7, -3))
	s := g1.GroundShade(7, -3)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 1.0)
}

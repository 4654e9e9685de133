// Package events provides the typed synchronous publish/subscribe bus and
// the closed set of game event records. Events are immutable values; the
// bus never retains them after dispatch.
package events

import (
	"time"

	"github.com/talgya/homestead/internal/world"
)

// Kind discriminates event record types.
type Kind string

const (
	KindTileChanged       Kind = "tile_changed"
	KindCropPlanted       Kind = "crop_planted"
	KindCropGrown         Kind = "crop_grown"
	KindCropHarvested     Kind = "crop_harvested"
	KindCropWatered       Kind = "crop_watered"
	KindCropFertilized    Kind = "crop_fertilized"
	KindAreaUnlocked      Kind = "area_unlocked"
	KindAreaHovered       Kind = "area_hovered"
	KindCoinsChanged      Kind = "coins_changed"
	KindPurchaseAttempted Kind = "purchase_attempted"
	KindToolSelected      Kind = "tool_selected"
	KindViewRefresh       Kind = "view_refresh"
)

// Event is implemented by every game event record.
type Event interface {
	Kind() Kind
	When() time.Time
}

// TileChanged signals that a tile's non-crop state changed: tilled, cleared,
// converted to road, or an enhancement expired.
type TileChanged struct {
	At     time.Time
	Pos    world.Coord
	Change string
}

// CropPlanted signals a crop was planted on a soil tile.
type CropPlanted struct {
	At   time.Time
	Pos  world.Coord
	Crop world.CropType
}

// CropGrown signals a crop's cached stage advanced.
type CropGrown struct {
	At        time.Time
	Pos       world.Coord
	Crop      world.CropType
	Stage     int
	MaxStages int
}

// CropHarvested carries the reward actually credited for the harvest.
type CropHarvested struct {
	At     time.Time
	Pos    world.Coord
	Crop   world.CropType
	Reward int
	Mature bool
}

// CropWatered signals the water enhancement was applied to a soil tile.
type CropWatered struct {
	At  time.Time
	Pos world.Coord
}

// CropFertilized signals the fertilizer enhancement was applied.
type CropFertilized struct {
	At  time.Time
	Pos world.Coord
}

// AreaUnlocked signals a successful area purchase.
type AreaUnlocked struct {
	At   time.Time
	Area world.Coord
	Cost int
}

// AreaHovered signals the pointer moved over an area (UI feedback only).
type AreaHovered struct {
	At   time.Time
	Area world.Coord
}

// CoinsChanged signals a ledger mutation.
type CoinsChanged struct {
	At        time.Time
	OldAmount int
	NewAmount int
	Delta     int
	Reason    string
}

// PurchaseAttempted is emitted for every area purchase attempt, successful
// or not, so the UI can react to both outcomes.
type PurchaseAttempted struct {
	At      time.Time
	Area    world.Coord
	Cost    int
	Success bool
	Reason  string
}

// ToolSelected signals the active tool changed.
type ToolSelected struct {
	At   time.Time
	Tool string
}

// ViewRefresh asks presentation collaborators to redraw.
type ViewRefresh struct {
	At time.Time
}

func (e TileChanged) Kind() Kind       { return KindTileChanged }
func (e CropPlanted) Kind() Kind       { return KindCropPlanted }
func (e CropGrown) Kind() Kind         { return KindCropGrown }
func (e CropHarvested) Kind() Kind     { return KindCropHarvested }
func (e CropWatered) Kind() Kind       { return KindCropWatered }
func (e CropFertilized) Kind() Kind    { return KindCropFertilized }
func (e AreaUnlocked) Kind() Kind      { return KindAreaUnlocked }
func (e AreaHovered) Kind() Kind       { return KindAreaHovered }
func (e CoinsChanged) Kind() Kind      { return KindCoinsChanged }
func (e PurchaseAttempted) Kind() Kind { return KindPurchaseAttempted }
func (e ToolSelected) Kind() Kind      { return KindToolSelected }
func (e ViewRefresh) Kind() Kind       { return KindViewRefresh }

func (e TileChanged) When() time.Time       { return e.At }
func (e CropPlanted) When() time.Time       { return e.At }
func (e CropGrown) When() time.Time         { return e.At }
func (e CropHarvested) When() time.Time     { return e.At }
func (e CropWatered) When() time.Time       { return e.At }
func (e CropFertilized) When() time.Time    { return e.At }
func (e AreaUnlocked) When() time.Time      { return e.At }
func (e AreaHovered) When() time.Time       { return e.At }
func (e CoinsChanged) When() time.Time      { return e.At }
func (e PurchaseAttempted) When() time.Time { return e.At }
func (e ToolSelected) When() time.Time      { return e.At }
func (e ViewRefresh) When() time.Time       { return e.At }

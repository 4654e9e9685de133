package world

import "time"

// TileKind distinguishes developed tile types. A coordinate with no stored
// tile is undeveloped, which is distinct from a present-but-empty soil tile.
type TileKind string

const (
	TileSoil TileKind = "soil"
	TileRoad TileKind = "road"
)

// CropType identifies a plantable crop. The set of valid values is defined
// by the crop catalog in the configuration.
type CropType string

// PlantedCrop is a crop growing on a soil tile. Stage is a cache: it is
// always re-derivable from PlantedAt, the crop type and the tile's
// enhancement status at query time.
type PlantedCrop struct {
	Type      CropType  `json:"type"`
	PlantedAt time.Time `json:"planted_at"`
	Stage     int       `json:"stage"`
	MaxStages int       `json:"max_stages"`
}

// Mature reports whether the crop has reached its terminal stage.
func (c *PlantedCrop) Mature() bool {
	return c.Stage >= c.MaxStages-1
}

// Clone returns a copy of the crop.
func (c *PlantedCrop) Clone() *PlantedCrop {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Tile is one developed grid cell. Only soil tiles may carry a crop or
// enhancement state; converting a tile to road discards both.
type Tile struct {
	Kind TileKind     `json:"kind"`
	Crop *PlantedCrop `json:"crop,omitempty"`

	Watered   bool      `json:"watered,omitempty"`
	WateredAt time.Time `json:"watered_at,omitzero"`

	Fertilized     bool      `json:"fertilized,omitempty"`
	FertilizedAt   time.Time `json:"fertilized_at,omitzero"`
	FertilizerUsed int       `json:"fertilizer_used,omitempty"`
	FertilizerMax  int       `json:"fertilizer_max,omitempty"`
}

// NewSoil returns an empty soil tile.
func NewSoil() *Tile {
	return &Tile{Kind: TileSoil}
}

// NewRoad returns a road tile.
func NewRoad() *Tile {
	return &Tile{Kind: TileRoad}
}

// IsSoil reports whether the tile is soil.
func (t *Tile) IsSoil() bool {
	return t != nil && t.Kind == TileSoil
}

// ConvertToRoad turns the tile into a road, discarding any crop and
// enhancement state. Reports whether anything was discarded.
func (t *Tile) ConvertToRoad() bool {
	discarded := t.Crop != nil || t.Watered || t.Fertilized
	t.Kind = TileRoad
	t.Crop = nil
	t.ClearWater()
	t.ClearFertilizer()
	return discarded
}

// ClearWater resets the water enhancement state.
func (t *Tile) ClearWater() {
	t.Watered = false
	t.WateredAt = time.Time{}
}

// ClearFertilizer resets the fertilizer enhancement state.
func (t *Tile) ClearFertilizer() {
	t.Fertilized = false
	t.FertilizedAt = time.Time{}
	t.FertilizerUsed = 0
	t.FertilizerMax = 0
}

// Clone returns a deep copy of the tile.
func (t *Tile) Clone() *Tile {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Crop = t.Crop.Clone()
	return &cp
}

// Valid reports whether the tile satisfies its structural invariants.
func (t *Tile) Valid() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TileSoil:
		if t.Crop != nil {
			if t.Crop.MaxStages < 2 || t.Crop.Stage < 0 || t.Crop.Stage > t.Crop.MaxStages-1 {
				return false
			}
		}
		return true
	case TileRoad:
		return t.Crop == nil && !t.Watered && !t.Fertilized
	default:
		return false
	}
}

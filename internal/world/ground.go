// Deterministic ground variation for renderers.
// Layered simplex noise gives each coordinate a stable shade and moisture
// hint so the drawing layer can break up large uniform regions without
// storing anything per tile.
package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GroundField samples deterministic per-coordinate ground variation.
// Two tiles with the same coordinates always render identically for a
// given seed, across runs and across save/load.
type GroundField struct {
	shade    opensimplex.Noise
	moisture opensimplex.Noise
}

// NewGroundField creates a ground field for the given world seed.
func NewGroundField(seed int64) *GroundField {
	return &GroundField{
		shade:    opensimplex.NewNormalized(seed),
		moisture: opensimplex.NewNormalized(seed + 1),
	}
}

// Shade returns a brightness variation in [0, 1) for the tile at c.
func (g *GroundField) Shade(c Coord) float64 {
	return octaveNoise(g.shade, float64(c.X), float64(c.Y), 3, 0.12, 0.5)
}

// Moisture returns an apparent soil-moisture variation in [0, 1) for the
// tile at c. Purely cosmetic; growth math never reads it.
func (g *GroundField) Moisture(c Coord) float64 {
	return octaveNoise(g.moisture, float64(c.X), float64(c.Y), 2, 0.08, 0.5)
}

// octaveNoise sums multiple noise octaves for a more natural look.
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	var total, amplitude, maxValue float64
	amplitude = 1.0
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	v := total / maxValue
	return math.Min(math.Max(v, 0), 0.999999)
}

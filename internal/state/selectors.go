package state

import "github.com/talgya/homestead/internal/world"

// Selectors are pure read-only projections over a snapshot. They never
// mutate and never trigger lazy enhancement expiry; they read only the
// cached fields.

// TileCount returns the number of developed tiles.
func TileCount(s *GameState) int {
	return len(s.Tiles)
}

// CropCount returns the number of planted crops.
func CropCount(s *GameState) int {
	n := 0
	for _, t := range s.Tiles {
		if t.Crop != nil {
			n++
		}
	}
	return n
}

// MatureCropCount returns the number of crops at their terminal stage,
// judged by the cached stage.
func MatureCropCount(s *GameState) int {
	n := 0
	for _, t := range s.Tiles {
		if t.Crop != nil && t.Crop.Mature() {
			n++
		}
	}
	return n
}

// AverageCropProgress returns the mean growth progress across planted crops
// in [0, 1], judged by the cached stage. Zero when nothing is planted.
func AverageCropProgress(s *GameState) float64 {
	var sum float64
	n := 0
	for _, t := range s.Tiles {
		if t.Crop == nil {
			continue
		}
		n++
		if t.Crop.MaxStages > 1 {
			sum += float64(t.Crop.Stage) / float64(t.Crop.MaxStages-1)
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// RoadCount returns the number of road tiles.
func RoadCount(s *GameState) int {
	n := 0
	for _, t := range s.Tiles {
		if t.Kind == world.TileRoad {
			n++
		}
	}
	return n
}

// UnlockedAreaCount returns the number of unlocked areas.
func UnlockedAreaCount(s *GameState) int {
	n := 0
	for _, a := range s.Areas {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// WateredTileCount returns the number of tiles whose cached watered flag is
// set. Expiry is lazy, so this may briefly overcount until the next sweep.
func WateredTileCount(s *GameState) int {
	n := 0
	for _, t := range s.Tiles {
		if t.Watered {
			n++
		}
	}
	return n
}

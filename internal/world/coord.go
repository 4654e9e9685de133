// Package world provides the tile and area store for the farming grid.
// The grid is unbounded in all directions; tiles and areas are keyed by
// integer coordinates encoded as canonical "x,y" strings.
package world

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is a position on the grid. Negative coordinates are valid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key returns the canonical map key for this coordinate.
func (c Coord) Key() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

// ParseKey decodes a canonical "x,y" key back into a coordinate.
func ParseKey(key string) (Coord, error) {
	sep := strings.IndexByte(key, ',')
	if sep < 0 {
		return Coord{}, fmt.Errorf("coord key %q: missing separator", key)
	}
	x, err := strconv.Atoi(key[:sep])
	if err != nil {
		return Coord{}, fmt.Errorf("coord key %q: %w", key, err)
	}
	y, err := strconv.Atoi(key[sep+1:])
	if err != nil {
		return Coord{}, fmt.Errorf("coord key %q: %w", key, err)
	}
	return Coord{X: x, Y: y}, nil
}

// Manhattan returns the Manhattan distance from the origin.
func (c Coord) Manhattan() int {
	return abs(c.X) + abs(c.Y)
}

// OrthogonalNeighborDirections defines the four cardinal neighbor offsets.
var OrthogonalNeighborDirections = [4]Coord{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// Neighbors4 returns the four orthogonal neighbors of c.
func (c Coord) Neighbors4() [4]Coord {
	var out [4]Coord
	for i, d := range OrthogonalNeighborDirections {
		out[i] = Coord{X: c.X + d.X, Y: c.Y + d.Y}
	}
	return out
}

// AreaOf returns the coordinate of the area containing the given tile.
// Uses floor division so negative tile coordinates map correctly
// (e.g. tile (-1,-1) with areaSize 10 belongs to area (-1,-1)).
func AreaOf(tile Coord, areaSize int) Coord {
	return Coord{X: floorDiv(tile.X, areaSize), Y: floorDiv(tile.Y, areaSize)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

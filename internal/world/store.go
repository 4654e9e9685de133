package world

// Store owns the tile and area maps. It is a plain container: all business
// rules (growth, unlock eligibility, pricing) live in the engines that
// operate on it. Not safe for concurrent use; callers serialize access.
type Store struct {
	tiles map[string]*Tile
	areas map[string]*Area
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		tiles: make(map[string]*Tile),
		areas: make(map[string]*Area),
	}
}

// Tile returns the tile at c, or nil if the coordinate is undeveloped.
func (s *Store) Tile(c Coord) *Tile {
	return s.tiles[c.Key()]
}

// SetTile stores a tile at c, replacing any existing tile.
func (s *Store) SetTile(c Coord, t *Tile) {
	s.tiles[c.Key()] = t
}

// DeleteTile removes the tile at c, returning the coordinate to the
// undeveloped state. Reports whether a tile was present.
func (s *Store) DeleteTile(c Coord) bool {
	key := c.Key()
	if _, ok := s.tiles[key]; !ok {
		return false
	}
	delete(s.tiles, key)
	return true
}

// Area returns the area record at c, or nil if none exists (implicitly locked).
func (s *Store) Area(c Coord) *Area {
	return s.areas[c.Key()]
}

// SetArea stores an area record at c.
func (s *Store) SetArea(a *Area) {
	s.areas[a.Coord.Key()] = a
}

// TileCount returns the number of developed tiles.
func (s *Store) TileCount() int {
	return len(s.tiles)
}

// AreaCount returns the number of stored area records.
func (s *Store) AreaCount() int {
	return len(s.areas)
}

// EachTile invokes fn for every developed tile. Iteration order is
// unspecified; fn must not add or remove tiles.
func (s *Store) EachTile(fn func(c Coord, t *Tile)) {
	for key, t := range s.tiles {
		c, err := ParseKey(key)
		if err != nil {
			continue
		}
		fn(c, t)
	}
}

// EachArea invokes fn for every stored area record.
func (s *Store) EachArea(fn func(a *Area)) {
	for _, a := range s.areas {
		fn(a)
	}
}

// Tiles exposes the live tile map. The state manager uses this to reference
// the authoritative maps in its snapshot; nothing else should retain it.
func (s *Store) Tiles() map[string]*Tile {
	return s.tiles
}

// Areas exposes the live area map.
func (s *Store) Areas() map[string]*Area {
	return s.areas
}

// ReplaceTiles swaps in a whole new tile map, as happens on load.
func (s *Store) ReplaceTiles(tiles map[string]*Tile) {
	if tiles == nil {
		tiles = make(map[string]*Tile)
	}
	s.tiles = tiles
}

// ReplaceAreas swaps in a whole new area map.
func (s *Store) ReplaceAreas(areas map[string]*Area) {
	if areas == nil {
		areas = make(map[string]*Area)
	}
	s.areas = areas
}

// Reset drops all tiles and areas.
func (s *Store) Reset() {
	s.tiles = make(map[string]*Tile)
	s.areas = make(map[string]*Area)
}

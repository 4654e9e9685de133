package farmhand

import (
	"sort"

	"github.com/talgya/homestead/internal/world"
)

// Op enumerates the actions the farmhand can take.
type Op string

const (
	OpHarvest  Op = "harvest"
	OpWater    Op = "water"
	OpPlant    Op = "plant"
	OpTill     Op = "till"
	OpPurchase Op = "purchase"
)

// Action is one decided intervention.
type Action struct {
	Op   Op     `json:"op"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Crop string `json:"crop,omitempty"`
}

// Planner turns an observed snapshot into a short list of actions.
type Planner struct {
	// PlantCrop is the crop the farmhand sows on empty soil.
	PlantCrop string
	// SeedCost guards planting against draining the balance.
	SeedCost int
	// CoinReserve is kept untouched for future area purchases.
	CoinReserve int
	// AreaSize is needed to translate tile positions into area positions.
	AreaSize int
	// MaxActions caps the work done per cycle.
	MaxActions int
}

// DefaultPlanner returns a planner with conservative settings.
func DefaultPlanner(areaSize int) *Planner {
	return &Planner{
		PlantCrop:   "wheat",
		SeedCost:    10,
		CoinReserve: 100,
		AreaSize:    areaSize,
		MaxActions:  16,
	}
}

// Plan triages the snapshot. Priority order: harvest mature crops first
// (they stop earning once mature), re-water planted tiles, sow empty soil,
// till undeveloped land inside unlocked areas, and finally buy one adjacent
// area when comfortably affordable.
func (p *Planner) Plan(snap *FarmSnapshot, quote func(x, y int) (AreaQuote, bool)) []Action {
	var actions []Action
	budget := snap.Status.Coins

	keys := sortedKeys(snap.Tiles)
	for _, key := range keys {
		if len(actions) >= p.MaxActions {
			return actions
		}
		t := snap.Tiles[key]
		c, err := world.ParseKey(key)
		if err != nil || t.Kind != world.TileSoil {
			continue
		}
		switch {
		case t.Crop != nil && t.Crop.Stage >= t.Crop.MaxStages-1:
			actions = append(actions, Action{Op: OpHarvest, X: c.X, Y: c.Y})
		case t.Crop != nil && !t.Watered:
			actions = append(actions, Action{Op: OpWater, X: c.X, Y: c.Y})
		case t.Crop == nil && budget-p.SeedCost >= p.CoinReserve:
			actions = append(actions, Action{Op: OpPlant, X: c.X, Y: c.Y, Crop: p.PlantCrop})
			budget -= p.SeedCost
		}
	}

	// Tilling is free, but only worth doing while a future planting is
	// affordable; the new soil gets sown on the next cycle.
	if budget-p.SeedCost >= p.CoinReserve {
		actions = append(actions, p.pickTills(snap, p.MaxActions-len(actions))...)
	}

	if area, ok := p.pickArea(snap, budget, quote); ok && len(actions) < p.MaxActions {
		actions = append(actions, area)
	}
	return actions
}

// pickTills finds up to limit undeveloped coordinates inside unlocked areas,
// in stable order.
func (p *Planner) pickTills(snap *FarmSnapshot, limit int) []Action {
	if limit <= 0 || p.AreaSize <= 0 {
		return nil
	}
	areaKeys := make([]string, 0, len(snap.Areas))
	for k, a := range snap.Areas {
		if a.Unlocked {
			areaKeys = append(areaKeys, k)
		}
	}
	sort.Strings(areaKeys)

	var out []Action
	for _, k := range areaKeys {
		c, err := world.ParseKey(k)
		if err != nil {
			continue
		}
		for dy := 0; dy < p.AreaSize; dy++ {
			for dx := 0; dx < p.AreaSize; dx++ {
				tc := world.Coord{X: c.X*p.AreaSize + dx, Y: c.Y*p.AreaSize + dy}
				if _, developed := snap.Tiles[tc.Key()]; developed {
					continue
				}
				out = append(out, Action{Op: OpTill, X: tc.X, Y: tc.Y})
				if len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

// pickArea finds the cheapest purchasable neighbor of the unlocked region
// that the budget covers with the reserve left intact.
func (p *Planner) pickArea(snap *FarmSnapshot, budget int, quote func(x, y int) (AreaQuote, bool)) (Action, bool) {
	seen := map[string]bool{}
	var best *Action
	bestCost := 0

	for key, a := range snap.Areas {
		if !a.Unlocked {
			continue
		}
		c, err := world.ParseKey(key)
		if err != nil {
			continue
		}
		for _, n := range c.Neighbors4() {
			nk := n.Key()
			if seen[nk] {
				continue
			}
			seen[nk] = true
			q, ok := quote(n.X, n.Y)
			if !ok || !q.Purchasable {
				continue
			}
			if budget-q.Cost < p.CoinReserve {
				continue
			}
			if best == nil || q.Cost < bestCost {
				best = &Action{Op: OpPurchase, X: n.X, Y: n.Y}
				bestCost = q.Cost
			}
		}
	}
	if best == nil {
		return Action{}, false
	}
	return *best, true
}

// sortedKeys gives the triage a stable order across cycles.
func sortedKeys(tiles map[string]*world.Tile) []string {
	keys := make([]string, 0, len(tiles))
	for k := range tiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

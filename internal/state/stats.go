package state

import (
	"time"

	"github.com/talgya/homestead/internal/events"
)

// Stats aggregates lifetime counters by observing bus events. It is derived
// state only: losing it never affects the simulation.
type Stats struct {
	CropsPlanted    int `json:"crops_planted"`
	CropsHarvested  int `json:"crops_harvested"`
	MatureHarvests  int `json:"mature_harvests"`
	CoinsEarned     int `json:"coins_earned"`
	CoinsSpent      int `json:"coins_spent"`
	AreasUnlocked   int `json:"areas_unlocked"`
	TilesWatered    int `json:"tiles_watered"`
	TilesFertilized int `json:"tiles_fertilized"`

	LastEventAt time.Time `json:"last_event_at,omitzero"`
}

// StatsObserver accumulates Stats from the event stream.
type StatsObserver struct {
	stats Stats
	unsub []func()
}

// NewStatsObserver subscribes to the bus and starts counting.
func NewStatsObserver(bus *events.Bus) *StatsObserver {
	o := &StatsObserver{}
	o.unsub = append(o.unsub,
		bus.Subscribe(events.KindCropPlanted, o.observe),
		bus.Subscribe(events.KindCropHarvested, o.observe),
		bus.Subscribe(events.KindCropWatered, o.observe),
		bus.Subscribe(events.KindCropFertilized, o.observe),
		bus.Subscribe(events.KindAreaUnlocked, o.observe),
		bus.Subscribe(events.KindCoinsChanged, o.observe),
	)
	return o
}

func (o *StatsObserver) observe(ev events.Event) {
	o.stats.LastEventAt = ev.When()
	switch e := ev.(type) {
	case events.CropPlanted:
		o.stats.CropsPlanted++
	case events.CropHarvested:
		o.stats.CropsHarvested++
		if e.Mature {
			o.stats.MatureHarvests++
		}
	case events.CropWatered:
		o.stats.TilesWatered++
	case events.CropFertilized:
		o.stats.TilesFertilized++
	case events.AreaUnlocked:
		o.stats.AreasUnlocked++
	case events.CoinsChanged:
		if e.Delta > 0 {
			o.stats.CoinsEarned += e.Delta
		} else {
			o.stats.CoinsSpent -= e.Delta
		}
	}
}

// Snapshot returns a copy of the current counters.
func (o *StatsObserver) Snapshot() Stats {
	return o.stats
}

// Reset zeroes all counters.
func (o *StatsObserver) Reset() {
	o.stats = Stats{}
}

// Close unsubscribes the observer from the bus.
func (o *StatsObserver) Close() {
	for _, u := range o.unsub {
		u()
	}
	o.unsub = nil
}

package world

import "time"

// Area is one fixed-size square region of tiles. Areas are created lazily:
// a coordinate without a stored area is implicitly locked. During normal
// play an area only ever transitions locked → unlocked.
type Area struct {
	Coord      Coord     `json:"coord"`
	Unlocked   bool      `json:"unlocked"`
	UnlockedAt time.Time `json:"unlocked_at,omitzero"`
	CostPaid   int       `json:"cost_paid"`
}

// Clone returns a copy of the area.
func (a *Area) Clone() *Area {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// Valid reports whether the area satisfies its structural invariants.
func (a *Area) Valid() bool {
	return a != nil && a.CostPaid >= 0
}

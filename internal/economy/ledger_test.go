package economy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/homestead/internal/events"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestSpendAndEarn(t *testing.T) {
	l := NewLedger(500, 100, events.NewBus(), fixedClock())

	assert.True(t, l.Spend(150, "unlock area 1,0"))
	assert.Equal(t, 350, l.Balance())

	assert.True(t, l.Earn(20, "harvest at 1,1"))
	assert.Equal(t, 370, l.Balance())
}

func TestSpendInsufficientFundsMutatesNothing(t *testing.T) {
	l := NewLedger(100, 100, events.NewBus(), fixedClock())

	assert.False(t, l.Spend(101, "too expensive"))
	assert.Equal(t, 100, l.Balance())
	assert.Empty(t, l.History())
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	l := NewLedger(100, 100, events.NewBus(), fixedClock())

	assert.False(t, l.Spend(0, "zero"))
	assert.False(t, l.Spend(-5, "negative"))
	assert.False(t, l.Earn(0, "zero"))
	assert.False(t, l.Earn(-5, "negative"))
	assert.Empty(t, l.History())
}

func TestLedgerConservation(t *testing.T) {
	l := NewLedger(500, 1000, events.NewBus(), fixedClock())

	ops := []struct {
		spend  bool
		amount int
	}{
		{true, 100}, {false, 40}, {true, 250}, {true, 9999}, {false, 7}, {true, 1},
	}
	for _, op := range ops {
		if op.spend {
			l.Spend(op.amount, "spend")
		} else {
			l.Earn(op.amount, "earn")
		}
	}

	// balance == seed + sum of successful deltas, and each entry links
	// its before/after balances.
	sum := 0
	prevAfter := 500
	for _, e := range l.History() {
		assert.Equal(t, e.BalanceBefore+e.Delta, e.BalanceAfter)
		assert.Equal(t, prevAfter, e.BalanceBefore)
		assert.NotEmpty(t, e.ID)
		prevAfter = e.BalanceAfter
		sum += e.Delta
	}
	assert.Equal(t, 500+sum, l.Balance())
	assert.Equal(t, prevAfter, l.Balance())
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	l := NewLedger(0, 3, events.NewBus(), fixedClock())

	for i := 1; i <= 5; i++ {
		require.True(t, l.Earn(i, "earn"))
	}

	h := l.History()
	require.Len(t, h, 3)
	assert.Equal(t, 3, h[0].Delta)
	assert.Equal(t, 5, h[2].Delta)
	// Eviction never touches the live balance.
	assert.Equal(t, 15, l.Balance())
}

func TestCoinsChangedEvents(t *testing.T) {
	bus := events.NewBus()
	var got []events.CoinsChanged
	bus.Subscribe(events.KindCoinsChanged, func(ev events.Event) {
		got = append(got, ev.(events.CoinsChanged))
	})

	l := NewLedger(500, 100, bus, fixedClock())
	l.Spend(100, "unlock")
	l.Spend(9999, "fails silently")
	l.Earn(30, "harvest")

	require.Len(t, got, 2)
	assert.Equal(t, 500, got[0].OldAmount)
	assert.Equal(t, 400, got[0].NewAmount)
	assert.Equal(t, -100, got[0].Delta)
	assert.Equal(t, "unlock", got[0].Reason)
	assert.Equal(t, 30, got[1].Delta)
}

func TestReset(t *testing.T) {
	l := NewLedger(500, 100, events.NewBus(), fixedClock())
	l.Spend(200, "spend")
	l.Earn(50, "earn")

	l.Reset()

	assert.Equal(t, 500, l.Balance())
	assert.Empty(t, l.History())
}

func TestRestore(t *testing.T) {
	l := NewLedger(500, 2, events.NewBus(), fixedClock())
	entries := []Entry{
		{ID: "a", Delta: 10, BalanceBefore: 0, BalanceAfter: 10},
		{ID: "b", Delta: 20, BalanceBefore: 10, BalanceAfter: 30},
		{ID: "c", Delta: 30, BalanceBefore: 30, BalanceAfter: 60},
	}
	l.Restore(60, entries)

	assert.Equal(t, 60, l.Balance())
	// The cap applies on restore too, keeping the newest entries.
	require.Len(t, l.History(), 2)
	assert.Equal(t, "b", l.History()[0].ID)
}

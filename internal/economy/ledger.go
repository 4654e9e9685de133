// Package economy provides the coin ledger: the current balance plus a
// capped, append-only history of every successful transaction.
package economy

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/homestead/internal/events"
)

// Entry records one successful balance mutation.
// BalanceAfter == BalanceBefore + Delta always holds.
type Entry struct {
	ID            string    `json:"id" db:"id"`
	Timestamp     time.Time `json:"timestamp" db:"ts"`
	Delta         int       `json:"delta" db:"delta"`
	Reason        string    `json:"reason" db:"reason"`
	BalanceBefore int       `json:"balance_before" db:"balance_before"`
	BalanceAfter  int       `json:"balance_after" db:"balance_after"`
}

// Ledger owns the coin balance. Spend and Earn are the only mutation paths
// during play; failed operations never touch the balance or the history.
// Not safe for concurrent use; callers serialize access.
type Ledger struct {
	seed    int
	balance int
	entries []Entry
	cap     int

	bus *events.Bus
	now func() time.Time
}

// NewLedger creates a ledger seeded with the starting balance. historyCap
// bounds the retained history; the oldest entries are evicted first.
func NewLedger(seed, historyCap int, bus *events.Bus, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		seed:    seed,
		balance: seed,
		cap:     historyCap,
		bus:     bus,
		now:     now,
	}
}

// Balance returns the current coin balance.
func (l *Ledger) Balance() int {
	return l.balance
}

// Spend debits amount coins. It fails without mutation when amount exceeds
// the balance or is not positive.
func (l *Ledger) Spend(amount int, reason string) bool {
	if amount <= 0 || amount > l.balance {
		return false
	}
	l.apply(-amount, reason)
	return true
}

// Earn credits amount coins. It fails only for non-positive amounts.
func (l *Ledger) Earn(amount int, reason string) bool {
	if amount <= 0 {
		return false
	}
	l.apply(amount, reason)
	return true
}

func (l *Ledger) apply(delta int, reason string) {
	before := l.balance
	l.balance += delta

	l.entries = append(l.entries, Entry{
		ID:            uuid.NewString(),
		Timestamp:     l.now(),
		Delta:         delta,
		Reason:        reason,
		BalanceBefore: before,
		BalanceAfter:  l.balance,
	})
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}

	if l.bus != nil {
		l.bus.Publish(events.CoinsChanged{
			At:        l.now(),
			OldAmount: before,
			NewAmount: l.balance,
			Delta:     delta,
			Reason:    reason,
		})
	}
}

// History returns a copy of the retained transaction history, oldest first.
func (l *Ledger) History() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset restores the seed balance and clears the history atomically.
func (l *Ledger) Reset() {
	old := l.balance
	l.balance = l.seed
	l.entries = nil
	if l.bus != nil && old != l.balance {
		l.bus.Publish(events.CoinsChanged{
			At:        l.now(),
			OldAmount: old,
			NewAmount: l.balance,
			Delta:     l.balance - old,
			Reason:    "reset",
		})
	}
}

// Restore replaces the balance and history wholesale, as happens on load.
// No event is emitted; the caller refreshes derived state itself.
func (l *Ledger) Restore(balance int, entries []Entry) {
	if balance < 0 {
		balance = 0
	}
	l.balance = balance
	if len(entries) > l.cap {
		entries = entries[len(entries)-l.cap:]
	}
	l.entries = append([]Entry(nil), entries...)
}

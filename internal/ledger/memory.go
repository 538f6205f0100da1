package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger is an in-process Adapter for tests and embedders.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	entries  []Entry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]int64)}
}

// Register creates an account with an opening balance.
func (l *MemoryLedger) Register(userID string, opening int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = opening
}

func (l *MemoryLedger) Balance(_ context.Context, userID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[userID]
	if !ok {
		return 0, ErrNotRegistered
	}
	return balance, nil
}

func (l *MemoryLedger) Debit(_ context.Context, userID string, amount int64, ref Ref) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[userID]
	if !ok {
		return ErrNotRegistered
	}
	if balance < amount {
		return ErrInsufficientFunds
	}

	l.balances[userID] = balance - amount
	l.append(userID, amount, KindDebit, ref)
	return nil
}

func (l *MemoryLedger) Credit(_ context.Context, userID string, amount int64, ref Ref) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.balances[userID]; !ok {
		return ErrNotRegistered
	}

	l.balances[userID] += amount
	l.append(userID, amount, KindCredit, ref)
	return nil
}

func (l *MemoryLedger) append(userID string, amount int64, kind EntryKind, ref Ref) {
	l.entries = append(l.entries, Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Game:      ref.Game,
		SessionID: ref.SessionID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	})
}

// Entries returns a copy of the journal.
func (l *MemoryLedger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Unsettled lists debits with no matching credit for the same session.
func (l *MemoryLedger) Unsettled(_ context.Context, olderThan time.Duration) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	credited := make(map[string]bool)
	for _, e := range l.entries {
		if e.Kind == KindCredit {
			credited[e.SessionID] = true
		}
	}

	cutoff := time.Now().UTC().Add(-olderThan)
	var out []Entry
	for _, e := range l.entries {
		if e.Kind == KindDebit && !credited[e.SessionID] && e.CreatedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Package ledger is the engine's boundary to balance storage. The session
// machine treats it as authoritative: stakes are debited before a session
// exists and payouts credited on terminal transitions, with every
// movement journaled against its session for reconciliation.
package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInsufficientFunds reports a debit larger than the available
	// balance. The balance is unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotRegistered reports an operation against a user with no
	// account. Game starts must short-circuit on it.
	ErrNotRegistered = errors.New("user not registered")
)

// EntryKind tags a journal entry.
type EntryKind string

const (
	KindDebit  EntryKind = "debit"
	KindCredit EntryKind = "credit"
)

// Entry is one journaled balance movement.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Game      string    `json:"game"`
	SessionID string    `json:"session_id"`
	Kind      EntryKind `json:"kind"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Ref ties a balance movement to the session that caused it.
type Ref struct {
	Game      string
	SessionID string
}

// Adapter is the balance interface the session machine consumes.
type Adapter interface {
	// Balance returns the user's balance, or ErrNotRegistered.
	Balance(ctx context.Context, userID string) (int64, error)
	// Debit atomically checks and decrements the balance. Fails with
	// ErrInsufficientFunds or ErrNotRegistered; never leaves a balance
	// negative.
	Debit(ctx context.Context, userID string, amount int64, ref Ref) error
	// Credit increments the balance.
	Credit(ctx context.Context, userID string, amount int64, ref Ref) error
}

// Journal exposes the reconciliation view: debits whose session never
// settled (crash between debit and terminal transition, spec'd as an
// operator job's input, not auto-refunded).
type Journal interface {
	Unsettled(ctx context.Context, olderThan time.Duration) ([]Entry, error)
}

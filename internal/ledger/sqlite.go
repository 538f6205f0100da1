package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteLedger implements Adapter and Journal on the shared SQLite
// database. The conditional-decrement debit makes "check balance, then
// debit" a single atomic statement.
type SQLiteLedger struct {
	db *sql.DB
}

func NewSQLiteLedger(db *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{db: db}
}

// Migrate creates the balance and journal tables.
func (l *SQLiteLedger) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS balances (
			user_id TEXT PRIMARY KEY,
			balance INTEGER NOT NULL CHECK (balance >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS journal (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			game TEXT NOT NULL,
			session_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			amount INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_session ON journal(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_user ON journal(user_id, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := l.db.Exec(migration); err != nil {
			return fmt.Errorf("ledger migration failed: %w", err)
		}
	}
	return nil
}

// Register creates an account with an opening balance. Registering an
// existing account is an error.
func (l *SQLiteLedger) Register(ctx context.Context, userID string, opening int64) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO balances (user_id, balance) VALUES (?, ?)`, userID, opening)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}

// Balance returns the user's balance, or ErrNotRegistered.
func (l *SQLiteLedger) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := l.db.QueryRowContext(ctx,
		`SELECT balance FROM balances WHERE user_id = ?`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrNotRegistered
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}

// Debit decrements the balance if and only if it covers the amount, and
// journals the movement in the same transaction.
func (l *SQLiteLedger) Debit(ctx context.Context, userID string, amount int64, ref Ref) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin debit: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE balances SET balance = balance - ? WHERE user_id = ? AND balance >= ?`,
		amount, userID, amount)
	if err != nil {
		return fmt.Errorf("debit: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit result: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM balances WHERE user_id = ?)`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("debit check: %w", err)
		}
		if !exists {
			return ErrNotRegistered
		}
		return ErrInsufficientFunds
	}

	if err := journalEntry(ctx, tx, userID, amount, KindDebit, ref); err != nil {
		return err
	}
	return tx.Commit()
}

// Credit increments the balance and journals the movement.
func (l *SQLiteLedger) Credit(ctx context.Context, userID string, amount int64, ref Ref) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credit: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE balances SET balance = balance + ? WHERE user_id = ?`, amount, userID)
	if err != nil {
		return fmt.Errorf("credit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit result: %w", err)
	}
	if affected == 0 {
		return ErrNotRegistered
	}

	if err := journalEntry(ctx, tx, userID, amount, KindCredit, ref); err != nil {
		return err
	}
	return tx.Commit()
}

func journalEntry(ctx context.Context, tx *sql.Tx, userID string, amount int64, kind EntryKind, ref Ref) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO journal (id, user_id, game, session_id, kind, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, ref.Game, ref.SessionID, string(kind), amount,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("journal entry: %w", err)
	}
	return nil
}

// Unsettled lists debits older than the cutoff whose session has no
// credit entry. A session that lost settles with a zero-amount credit, so
// every cleanly finished session disappears from this view.
func (l *SQLiteLedger) Unsettled(ctx context.Context, olderThan time.Duration) ([]Entry, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)

	rows, err := l.db.QueryContext(ctx,
		`SELECT d.id, d.user_id, d.game, d.session_id, d.kind, d.amount, d.created_at
		 FROM journal d
		 WHERE d.kind = 'debit' AND d.created_at < ?
		   AND NOT EXISTS (
			 SELECT 1 FROM journal c
			 WHERE c.session_id = d.session_id AND c.kind = 'credit'
		   )`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query unsettled: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Game, &e.SessionID, &e.Kind, &e.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan unsettled: %w", err)
		}
		if ts, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

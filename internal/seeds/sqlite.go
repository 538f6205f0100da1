package seeds

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// SQLiteStore persists seed pairs in the shared SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate creates the seed table.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS seed_pairs (
			user_id TEXT PRIMARY KEY,
			server_seed TEXT NOT NULL,
			server_seed_hash TEXT NOT NULL,
			client_seed TEXT NOT NULL,
			nonce INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("seed migration failed: %w", err)
		}
	}
	return nil
}

// Load returns the user's pair, or nil when none exists.
func (s *SQLiteStore) Load(ctx context.Context, userID string) (*Pair, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, server_seed, server_seed_hash, client_seed, nonce, created_at
		 FROM seed_pairs WHERE user_id = ?`, userID)

	var pair Pair
	var createdAt string
	err := row.Scan(&pair.UserID, &pair.Server, &pair.ServerHash, &pair.Client, &pair.Nonce, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load seed pair: %w", err)
	}

	if ts, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
		pair.CreatedAt = ts
	}
	return &pair, nil
}

// Save upserts the user's pair.
func (s *SQLiteStore) Save(ctx context.Context, pair *Pair) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seed_pairs (user_id, server_seed, server_seed_hash, client_seed, nonce, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			server_seed = excluded.server_seed,
			server_seed_hash = excluded.server_seed_hash,
			client_seed = excluded.client_seed,
			nonce = excluded.nonce,
			created_at = excluded.created_at`,
		pair.UserID, pair.Server, pair.ServerHash, pair.Client, pair.Nonce,
		pair.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save seed pair: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store for tests and embedders that do not
// need durability.
type MemoryStore struct {
	mu    sync.Mutex
	pairs map[string]Pair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pairs: make(map[string]Pair)}
}

func (s *MemoryStore) Load(_ context.Context, userID string) (*Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair, ok := s.pairs[userID]
	if !ok {
		return nil, nil
	}
	copied := pair
	return &copied, nil
}

func (s *MemoryStore) Save(_ context.Context, pair *Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs[pair.UserID] = *pair
	return nil
}

// Package seeds manages the per-user commit/reveal seed pairs: creation,
// commitment hashing, nonce reservation per opened game, and full
// rotation with disclosure of the retired server seed.
package seeds

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rinapen/discord-game-bot/internal/engine"
)

// ErrStorage wraps persistence failures. Play must never proceed on a
// seed pair that was not durably saved, or the audit trail breaks.
var ErrStorage = errors.New("seed storage unavailable")

// Pair is a user's active seed pair. The server seed stays private until
// the pair is retired by a full rotation.
type Pair struct {
	UserID     string    `json:"user_id"`
	Server     string    `json:"-"`
	ServerHash string    `json:"server_seed_hash"`
	Client     string    `json:"client_seed"`
	Nonce      uint64    `json:"nonce"`
	CreatedAt  time.Time `json:"created_at"`
}

// Seeds returns the derivation input for the pair.
func (p Pair) Seeds() engine.Seeds {
	return engine.Seeds{Server: p.Server, Client: p.Client}
}

// Disclosure is the post-rotation reveal: everything a third party needs
// to recompute every outcome played under the retired pair.
type Disclosure struct {
	Server     string `json:"server_seed"`
	ServerHash string `json:"server_seed_hash"`
	Client     string `json:"client_seed"`
	// NoncesUsed is how many games were played under the pair; nonces
	// 0..NoncesUsed-1 are replayable.
	NoncesUsed uint64 `json:"nonces_used"`
}

// Store persists seed pairs keyed by user id. Load returns nil with no
// error when the user has no pair yet.
type Store interface {
	Load(ctx context.Context, userID string) (*Pair, error)
	Save(ctx context.Context, pair *Pair) error
}

// Manager serializes seed mutations per process. Session-level locking
// already serializes per-user play; the mutex here additionally covers
// direct seed operations (client seed changes, rotations) racing a game.
type Manager struct {
	store Store
	mu    sync.Mutex
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// GetOrCreate returns the user's active pair, creating and persisting a
// fresh one on first use.
func (m *Manager) GetOrCreate(ctx context.Context, userID string) (Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(ctx, userID)
}

func (m *Manager) getOrCreateLocked(ctx context.Context, userID string) (Pair, error) {
	existing, err := m.store.Load(ctx, userID)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: load: %v", ErrStorage, err)
	}
	if existing != nil {
		return *existing, nil
	}

	pair, err := newPair(userID)
	if err != nil {
		return Pair{}, err
	}
	if err := m.store.Save(ctx, &pair); err != nil {
		return Pair{}, fmt.Errorf("%w: save: %v", ErrStorage, err)
	}
	return pair, nil
}

func newPair(userID string) (Pair, error) {
	server, err := engine.NewServerSeed()
	if err != nil {
		return Pair{}, err
	}
	client, err := engine.NewClientSeed()
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		UserID:     userID,
		Server:     server,
		ServerHash: engine.HashSeed(server),
		Client:     client,
		Nonce:      0,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Commitment returns the published server seed hash for the user's active
// pair, creating the pair if needed. The hash is shown to the player
// before any outcome under the pair is derived.
func (m *Manager) Commitment(ctx context.Context, userID string) (string, error) {
	pair, err := m.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}
	return pair.ServerHash, nil
}

// SetClientSeed replaces the player's client seed. The active server seed
// is untouched: already-resolved games verified against the old client
// seed stay valid, and the commitment covers only the server seed.
func (m *Manager) SetClientSeed(ctx context.Context, userID, clientSeed string) (Pair, error) {
	if clientSeed == "" {
		return Pair{}, fmt.Errorf("%w: empty client seed", engine.ErrInvalidSeed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pair, err := m.getOrCreateLocked(ctx, userID)
	if err != nil {
		return Pair{}, err
	}

	pair.Client = clientSeed
	if err := m.store.Save(ctx, &pair); err != nil {
		return Pair{}, fmt.Errorf("%w: save: %v", ErrStorage, err)
	}
	return pair, nil
}

// Acquire reserves the next nonce under the user's active pair: the
// returned pair carries the nonce the caller now owns, and the stored
// pair has moved past it. Reserving at game open keeps two concurrent
// sessions from ever deriving outcomes under the same triple.
func (m *Manager) Acquire(ctx context.Context, userID string) (Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pair, err := m.getOrCreateLocked(ctx, userID)
	if err != nil {
		return Pair{}, err
	}

	lease := pair
	pair.Nonce++
	if err := m.store.Save(ctx, &pair); err != nil {
		return Pair{}, fmt.Errorf("%w: save: %v", ErrStorage, err)
	}
	return lease, nil
}

// Rotate retires the active pair and activates a fresh one, returning the
// disclosure for the retired pair. The new pair is persisted before the
// old server seed is returned, so no future game can play under a
// disclosed seed. Rotation must not run while a game under the pair is
// still live; the session machine enforces that.
func (m *Manager) Rotate(ctx context.Context, userID string) (Disclosure, Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, err := m.getOrCreateLocked(ctx, userID)
	if err != nil {
		return Disclosure{}, Pair{}, err
	}

	next, err := newPair(userID)
	if err != nil {
		return Disclosure{}, Pair{}, err
	}
	// Keep the player's chosen client seed across rotations.
	next.Client = old.Client

	if err := m.store.Save(ctx, &next); err != nil {
		return Disclosure{}, Pair{}, fmt.Errorf("%w: save: %v", ErrStorage, err)
	}

	disclosure := Disclosure{
		Server:     old.Server,
		ServerHash: old.ServerHash,
		Client:     old.Client,
		NoncesUsed: old.Nonce,
	}
	return disclosure, next, nil
}

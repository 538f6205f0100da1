package seeds

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinapen/discord-game-bot/internal/engine"
	"github.com/rinapen/discord-game-bot/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(NewMemoryStore())
}

func TestGetOrCreate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	pair, err := m.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", pair.UserID)
	assert.Len(t, pair.Server, 64)
	assert.NotEmpty(t, pair.Client)
	assert.Equal(t, uint64(0), pair.Nonce)
	assert.Equal(t, engine.HashSeed(pair.Server), pair.ServerHash)

	// Second call returns the same pair, not a fresh one.
	again, err := m.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, pair.Server, again.Server)
	assert.Equal(t, pair.Client, again.Client)
}

func TestCommitmentMatchesServerSeed(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	commitment, err := m.Commitment(ctx, "user-1")
	require.NoError(t, err)

	pair, err := m.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, engine.HashSeed(pair.Server), commitment)
}

func TestSetClientSeed(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	before, err := m.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	after, err := m.SetClientSeed(ctx, "user-1", "my lucky seed")
	require.NoError(t, err)
	assert.Equal(t, "my lucky seed", after.Client)
	assert.Equal(t, before.Server, after.Server, "client seed change must not rotate the server seed")
	assert.Equal(t, before.Nonce, after.Nonce)

	_, err = m.SetClientSeed(ctx, "user-1", "")
	assert.ErrorIs(t, err, engine.ErrInvalidSeed)
}

func TestAcquireNonceUniqueness(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first, err := m.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	seen := make(map[uint64]bool)
	for i := 0; i < 21; i++ {
		pair, err := m.Acquire(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, first.Server, pair.Server, "acquire must not change the server seed")
		assert.False(t, seen[pair.Nonce], "nonce %d leased twice", pair.Nonce)
		seen[pair.Nonce] = true
	}
	assert.Len(t, seen, 21)

	// The lease hands out the nonce the stored pair has already moved past.
	stored, err := m.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(21), stored.Nonce)
}

func TestRotateDisclosesRetiredSeed(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	pair, err := m.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	_, err = m.SetClientSeed(ctx, "user-1", "chosen")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = m.Acquire(ctx, "user-1")
		require.NoError(t, err)
	}

	disclosure, next, err := m.Rotate(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, pair.Server, disclosure.Server)
	assert.Equal(t, pair.ServerHash, disclosure.ServerHash)
	assert.Equal(t, "chosen", disclosure.Client)
	assert.Equal(t, uint64(3), disclosure.NoncesUsed)

	assert.NotEqual(t, pair.Server, next.Server)
	assert.Equal(t, uint64(0), next.Nonce)
	assert.Equal(t, "chosen", next.Client, "rotation keeps the player's client seed")

	// The disclosed hash verifies against the disclosed seed.
	assert.Equal(t, disclosure.ServerHash, engine.HashSeed(disclosure.Server))
}

type failingStore struct{ err error }

func (s failingStore) Load(context.Context, string) (*Pair, error) { return nil, s.err }
func (s failingStore) Save(context.Context, *Pair) error           { return s.err }

func TestStorageErrorsPropagate(t *testing.T) {
	m := NewManager(failingStore{err: errors.New("disk gone")})

	_, err := m.GetOrCreate(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrStorage)

	_, err = m.Acquire(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "seeds.db"))
	require.NoError(t, err)
	defer db.Close()

	s := NewSQLiteStore(db)
	require.NoError(t, s.Migrate())

	ctx := context.Background()
	m := NewManager(s)

	pair, err := m.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	loaded, err := s.Load(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, pair.Server, loaded.Server)
	assert.Equal(t, pair.Client, loaded.Client)
	assert.Equal(t, pair.Nonce, loaded.Nonce)

	lease, err := m.Acquire(ctx, "user-1")
	require.NoError(t, err)

	loaded, err = s.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, lease.Nonce+1, loaded.Nonce)

	missing, err := s.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

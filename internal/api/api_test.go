package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinapen/discord-game-bot/internal/engine"
	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/ledger"
	"github.com/rinapen/discord-game-bot/internal/seeds"
	"github.com/rinapen/discord-game-bot/internal/session"
)

type testEnv struct {
	server  *httptest.Server
	ledger  *ledger.MemoryLedger
	seeds   *seeds.Manager
	machine *session.Machine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	lg := ledger.NewMemoryLedger()
	lg.Register("alice", 10_000)
	mgr := seeds.NewManager(seeds.NewMemoryStore())
	machine := session.New(session.DefaultConfig(), lg, mgr, nil, nil)

	srv := NewServer(Options{
		Machine: machine,
		Seeds:   mgr,
		Ledger:  lg,
		Journal: lg,
	})

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, ledger: lg, seeds: mgr, machine: machine}
}

func (env *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, env.server.URL+path, &buf)
	require.NoError(t, err)

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestStartSessionAndCashout(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "alice",
		Game:   "mines",
		Bet:    1000,
		Params: session.Params{MineCount: 3},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "mines", body["game"])
	assert.Equal(t, "active", body["status"])
	assert.NotEmpty(t, body["server_seed_hash"])

	// Stake debited up front.
	resp, balance := env.do(t, http.MethodGet, "/api/v1/users/alice/balance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(9000), balance["balance"])

	// Cashout before any reveal returns the stake.
	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/cashout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cashed_out", body["status"])
	assert.Equal(t, float64(1000), body["payout"])

	_, balance = env.do(t, http.MethodGet, "/api/v1/users/alice/balance", nil)
	assert.Equal(t, float64(10000), balance["balance"])
}

func TestStartSessionValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "alice", Game: "keno", Bet: 1000,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrTypeValidation, body["type"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "alice", Game: "mines", Bet: 10, Params: session.Params{MineCount: 3},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrTypeInvalidBet, body["type"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "nobody", Game: "mines", Bet: 1000, Params: session.Params{MineCount: 3},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrTypeUserNotFound, body["type"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions", map[string]any{
		"user_id": "alice", "game": "mines", "bet": 1000, "bogus_field": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrTypeValidation, body["type"])
}

func TestConcurrentSessionConflict(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "alice", Game: "mines", Bet: 1000, Params: session.Params{MineCount: 3},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "alice", Game: "mines", Bet: 1000, Params: session.Params{MineCount: 3},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, ErrTypeSessionConflict, body["type"])
}

func TestMinesActionFlow(t *testing.T) {
	env := newTestEnv(t)

	pair, err := env.seeds.GetOrCreate(t.Context(), "alice")
	require.NoError(t, err)
	mines, err := games.MinePositions(pair.Seeds(), pair.Nonce, 3)
	require.NoError(t, err)
	mined := make(map[int]bool, len(mines))
	for _, p := range mines {
		mined[p] = true
	}
	safe := -1
	for cell := 0; cell < games.MinesBoardSize; cell++ {
		if !mined[cell] {
			safe = cell
			break
		}
	}

	resp, body := env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "alice", Game: "mines", Bet: 1000, Params: session.Params{MineCount: 3},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)

	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/action", ActionRequest{
		Kind: session.ActionReveal, Position: safe,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, float64(1), body["streak"])

	// Same cell again is rejected.
	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/action", ActionRequest{
		Kind: session.ActionReveal, Position: safe,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrTypeInvalidAction, body["type"])
}

func TestRevealSeedsRequiresTerminal(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "alice", Game: "mines", Bet: 1000, Params: session.Params{MineCount: 3},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	commitment := body["server_seed_hash"].(string)

	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/reveal", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, ErrTypeSessionLive, body["type"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/cashout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/reveal", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	server := body["server_seed"].(string)
	assert.Equal(t, commitment, engine.HashSeed(server))
}

func TestSeedEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/seeds/alice/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["server_seed_hash"])
	assert.NotContains(t, body, "server_seed")
	firstHash := body["server_seed_hash"].(string)

	resp, body = env.do(t, http.MethodPut, "/api/v1/seeds/alice/client", ClientSeedRequest{
		ClientSeed: "my lucky words",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "my lucky words", body["client_seed"])
	assert.Equal(t, firstHash, body["server_seed_hash"])

	resp, body = env.do(t, http.MethodPut, "/api/v1/seeds/alice/client", ClientSeedRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrTypeInvalidSeed, body["type"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/seeds/alice/rotate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	disclosed := body["disclosed"].(map[string]any)
	next := body["next"].(map[string]any)
	assert.Equal(t, firstHash, engine.HashSeed(disclosed["server_seed"].(string)))
	assert.NotEqual(t, firstHash, next["server_seed_hash"])
	assert.Equal(t, "my lucky words", next["client_seed"])
}

func TestRotateSeedsRefusedWhileSessionLive(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/sessions", StartSessionRequest{
		UserID: "alice", Game: "mines", Bet: 1000, Params: session.Params{MineCount: 24},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	commitment := body["server_seed_hash"].(string)

	// Disclosure mid-game would hand over the live board's layout.
	resp, body = env.do(t, http.MethodPost, "/api/v1/seeds/alice/rotate", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, ErrTypeSessionConflict, body["type"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/cashout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/v1/seeds/alice/rotate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	disclosed := body["disclosed"].(map[string]any)
	assert.Equal(t, commitment, engine.HashSeed(disclosed["server_seed"].(string)))
}

func TestVerifyReplaysMines(t *testing.T) {
	env := newTestEnv(t)

	seedPair := engine.Seeds{Server: "disclosed_server", Client: "public_client"}
	want, err := games.MinePositions(seedPair, 4, 5)
	require.NoError(t, err)

	resp, body := env.do(t, http.MethodPost, "/api/v1/verify", VerifyRequest{
		Game:       "mines",
		ServerSeed: seedPair.Server,
		ClientSeed: seedPair.Client,
		Nonce:      4,
		Params:     games.ReplayParams{MineCount: 5},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, engine.HashSeed(seedPair.Server), body["server_seed_hash"])
	outcome := body["outcome"].(map[string]any)
	got := outcome["mine_positions"].([]any)
	require.Len(t, got, len(want))
	for i, pos := range want {
		assert.Equal(t, float64(pos), got[i])
	}
}

func TestVerifyRejectsEmptySeed(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/verify", VerifyRequest{
		Game: "mines", Nonce: 1, Params: games.ReplayParams{MineCount: 3},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrTypeInvalidSeed, body["type"])
}

func TestSeedHash(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/seed/hash", SeedHashRequest{ServerSeed: "test"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", body["hash"])
}

func TestUnsettledEmpty(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/admin/unsettled?older_than=0s", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
}

func TestUnknownSessionIs404(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		fmt.Sprintf("/api/v1/sessions/%s", "no-such-id"),
	} {
		resp, body := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, ErrTypeSessionNotFound, body["type"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	resp, body = env.do(t, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ready"])

	resp, body = env.do(t, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["alive"])
}

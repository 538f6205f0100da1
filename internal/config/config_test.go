package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinapen/discord-game-bot/internal/games"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "casino.db", cfg.Database.Path)
	assert.Equal(t, "0.01", cfg.Casino.HouseEdge)
	assert.Equal(t, int64(100), cfg.Casino.MinBets["mines"])
	assert.Equal(t, int64(25), cfg.Casino.MinBets["roulette"])
	assert.Equal(t, 5*time.Minute, cfg.Casino.SessionTTL)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: ":9090"
database:
  path: "/tmp/test-casino.db"
casino:
  house_edge: "0.02"
  max_streak: 4
  session_ttl: 1m
  min_bets:
    mines: 500
    flip: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, "/tmp/test-casino.db", cfg.Database.Path)
	assert.Equal(t, "0.02", cfg.Casino.HouseEdge)
	assert.Equal(t, 4, cfg.Casino.MaxStreak)
	assert.Equal(t, time.Minute, cfg.Casino.SessionTTL)
	assert.Equal(t, int64(500), cfg.Casino.MinBets["mines"])

	// Unset fields fall back to defaults.
	assert.Equal(t, "1.96", cfg.Casino.BaseMultiplier)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("/non/existent/config.yaml")
	assert.Error(t, err)

	path := writeConfig(t, "casino:\n  max_streak: \"not a number\"\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSessionConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	sc, err := cfg.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(100), sc.MinBets[games.TypeMines])
	assert.Equal(t, "0.01", sc.HouseEdge.String())
	assert.Equal(t, "1.96", sc.BaseMultiplier.String())
	assert.Equal(t, 6, sc.MaxStreak)
}

func TestSessionConfigRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Casino.HouseEdge = "1.5"
	_, err := cfg.SessionConfig()
	assert.Error(t, err)

	cfg = Default()
	cfg.Casino.BaseMultiplier = "0.9"
	_, err = cfg.SessionConfig()
	assert.Error(t, err)

	cfg = Default()
	cfg.Casino.MinBets = map[string]int64{"keno": 100}
	_, err = cfg.SessionConfig()
	assert.Error(t, err)

	cfg = Default()
	cfg.Casino.MinBets = map[string]int64{"mines": 0}
	_, err = cfg.SessionConfig()
	assert.Error(t, err)
}

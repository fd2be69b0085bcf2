package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TACTICS_PORT", "")
	t.Setenv("MISSION_DIR", "")
	t.Setenv("RNG_SEED", "")
	t.Setenv("MAX_BATTLES", "")
	t.Setenv("BATTLE_LOG_DIR", "")

	cfg := Load()
	assert.Equal(t, ":8081", cfg.ListenAddr)
	assert.Equal(t, "missions", cfg.MissionDir)
	assert.Nil(t, cfg.RNGSeed)
	assert.Equal(t, 64, cfg.MaxBattles)
	assert.Empty(t, cfg.BattleLogDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TACTICS_PORT", "9000")
	t.Setenv("MISSION_DIR", "/srv/missions")
	t.Setenv("RNG_SEED", "42")
	t.Setenv("MAX_BATTLES", "3")
	t.Setenv("BATTLE_LOG_DIR", " /var/lib/tactics ")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/srv/missions", cfg.MissionDir)
	require.NotNil(t, cfg.RNGSeed)
	assert.Equal(t, int64(42), cfg.Seed())
	assert.Equal(t, 3, cfg.MaxBattles)
	assert.Equal(t, "/var/lib/tactics", cfg.BattleLogDir)
}

func TestPortWinsOverTacticsPort(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("TACTICS_PORT", "9000")
	assert.Equal(t, ":7000", Load().ListenAddr)
}

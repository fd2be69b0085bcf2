package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ========================= Config (env-configurable) =========================
// Defaults can be overridden via environment variables:
//   PORT / TACTICS_PORT  (default: 8081)
//   MISSION_DIR          (default: ./missions)
//   RNG_SEED             (default: time based; set for replayable battles)
//   MAX_BATTLES          (default: 64)
//   BATTLE_LOG_DIR       (default: empty, battle logs stay in memory)

// Build metadata injected via -ldflags at build time
var (
	BuildVersion = "dev"
	BuildTime    = ""
)

type Config struct {
	ListenAddr   string
	MissionDir   string
	// RNGSeed is nil unless RNG_SEED is set.
	RNGSeed      *int64
	MaxBattles   int
	BattleLogDir string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the configuration from the environment.
func Load() Config {
	p := os.Getenv("PORT")
	if p == "" {
		p = getenv("TACTICS_PORT", "8081")
	}
	cfg := Config{
		ListenAddr:   ":" + p,
		MissionDir:   getenv("MISSION_DIR", "missions"),
		MaxBattles:   64,
		BattleLogDir: strings.TrimSpace(os.Getenv("BATTLE_LOG_DIR")),
	}
	if s := strings.TrimSpace(os.Getenv("RNG_SEED")); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			cfg.RNGSeed = &n
		}
	}
	if s := strings.TrimSpace(os.Getenv("MAX_BATTLES")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.MaxBattles = n
		}
	}
	return cfg
}

// Seed returns the configured seed or a time based one.
func (c Config) Seed() int64 {
	if c.RNGSeed != nil {
		return *c.RNGSeed
	}
	return time.Now().UnixNano()
}

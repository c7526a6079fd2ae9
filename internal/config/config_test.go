package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:8080", "http://127.0.0.1:8080"}, cfg.Origins)
	assert.Equal(t, "./data/scoreboard.db", cfg.ScoreboardDB)
	assert.Equal(t, 5.0, cfg.CommandRate)
	assert.Equal(t, 10, cfg.CommandBurst)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":             "3000",
		"ORIGIN_ALLOWLIST": "https://a.example, ,https://b.example",
		"COMMAND_RATE":     "0.5",
		"COMMAND_BURST":    "2",
	}))
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
	assert.Equal(t, 0.5, cfg.CommandRate)
	assert.Equal(t, 2, cfg.CommandBurst)

	_, err = FromEnv(envMap(map[string]string{"COMMAND_BURST": "lots"}))
	assert.ErrorContains(t, err, "COMMAND_BURST")
}

func writeLua(t *testing.T, src string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "galactic.lua")
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

func TestLoadLua(t *testing.T) {
	p := writeLua(t, `
port = 9000
origins = { "https://wars.example", "http://localhost:" .. port }
scoreboard_db = "/var/lib/galactic/scores.db"
command_burst = 4
`)
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	require.NoError(t, LoadLua(p, &cfg))

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://wars.example", "http://localhost:9000"}, cfg.Origins)
	assert.Equal(t, "/var/lib/galactic/scores.db", cfg.ScoreboardDB)
	assert.Equal(t, 5.0, cfg.CommandRate)
	assert.Equal(t, 4, cfg.CommandBurst)
}

func TestLoadLuaErrors(t *testing.T) {
	var cfg Config
	assert.Error(t, LoadLua(writeLua(t, `port = `), &cfg))
	assert.ErrorContains(t, LoadLua(writeLua(t, `origins = "x"`), &cfg), "origins must be a table")
	assert.ErrorContains(t, LoadLua(writeLua(t, `command_rate = "fast"`), &cfg), "command_rate")
	assert.Error(t, LoadLua(filepath.Join(t.TempDir(), "missing.lua"), &cfg))
}

func TestLoadUsesGalacticConfig(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("GALACTIC_CONFIG", writeLua(t, `command_rate = 2`))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 2.0, cfg.CommandRate)
}

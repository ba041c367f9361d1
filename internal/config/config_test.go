package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jodu555/cinewatch/pkg/cinema"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	err := os.WriteFile(cfgPath, []byte(content), 0644)
	require.NoError(t, err, "failed to write test config")
	return cfgPath
}

func TestLoad_AllFields(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
url = "https://cinema.example.com"
log_level = "debug"

[state]
path = "/tmp/cinewatch-test/state.db"

[playback]
default_language = "EngSub"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "https://cinema.example.com", cfg.Server.URL)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/tmp/cinewatch-test/state.db", cfg.State.Path)
	assert.Equal(t, cinema.EngSub, cfg.Playback.DefaultLanguage)
}

func TestLoad_Defaults(t *testing.T) {
	cfgPath := writeConfig(t, ``)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "https://cinema-api.jodu555.de", cfg.Server.URL)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, cinema.GerDub, cfg.Playback.DefaultLanguage)
	assert.NotEmpty(t, cfg.State.Path)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("CINEWATCH_TEST_URL", "https://substituted.example.com")

	cfgPath := writeConfig(t, `
[server]
url = "${CINEWATCH_TEST_URL}"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "https://substituted.example.com", cfg.Server.URL)
}

func TestLoad_UnknownEnvVarLeftAlone(t *testing.T) {
	cfgPath := writeConfig(t, `
[state]
path = "${CINEWATCH_DOES_NOT_EXIST}/state.db"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "${CINEWATCH_DOES_NOT_EXIST}/state.db", cfg.State.Path)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
log_level = "verbose"
`)

	_, err := Load(cfgPath)
	assert.ErrorContains(t, err, "invalid log_level")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://cinema-api.jodu555.de", cfg.Server.URL)
	assert.Equal(t, cinema.GerDub, cfg.Playback.DefaultLanguage)
}

func TestDiscover_EnvVar(t *testing.T) {
	cfgPath := writeConfig(t, ``)
	t.Setenv("CINEWATCH_CONFIG", cfgPath)

	found, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, found)
}

func TestDiscover_EnvVarMissingFile(t *testing.T) {
	t.Setenv("CINEWATCH_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	_, err := Discover()
	assert.ErrorContains(t, err, "CINEWATCH_CONFIG")
}

// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jodu555/cinewatch/pkg/cinema"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	State    StateConfig    `toml:"state"`
	Playback PlaybackConfig `toml:"playback"`
}

type ServerConfig struct {
	URL      string        `toml:"url"`
	Timeout  time.Duration `toml:"timeout"`
	LogLevel string        `toml:"log_level"`
}

type StateConfig struct {
	Path string `toml:"path"`
}

type PlaybackConfig struct {
	DefaultLanguage cinema.Lang `toml:"default_language"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.URL == "" {
		c.Server.URL = "https://cinema-api.jodu555.de"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.State.Path == "" {
		c.State.Path = defaultStatePath()
	}
	if c.Playback.DefaultLanguage == "" {
		c.Playback.DefaultLanguage = cinema.GerDub
	}
}

func (c *Config) validate() error {
	if _, err := url.Parse(c.Server.URL); err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.Server.URL, err)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", c.Server.LogLevel)
	}
	return nil
}

// defaultStatePath returns the XDG-compliant location of the state database.
func defaultStatePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./state.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "cinewatch", "state.db")
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}

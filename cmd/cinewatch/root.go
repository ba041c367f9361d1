package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jodu555/cinewatch/internal/app"
	"github.com/jodu555/cinewatch/internal/config"
)

var version = "dev"

var (
	configPath string
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "cinewatch",
	Short: "CLI client for the cinema-api catalog",
	Long: `cinewatch - CLI client for the cinema-api catalog

Browse the series catalog, track watch progress, and derive
playback locators for the player of your choice.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("cinewatch {{.Version}}\n")
}

// loadConfig resolves the config file (flag, then search path) and
// applies command-line overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if found, err := config.Discover(); err == nil {
			path = found
		}
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Server.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openApp builds the composition root and restores the persisted
// session. The caller must Close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg, newLogger(cfg))
	if err != nil {
		return nil, err
	}

	a.Session.RestoreAndAuthenticate(cmd.Context())
	return a, nil
}

// requireAuth fails the command early when no session exists.
func requireAuth(a *app.App) error {
	if !a.Session.Authenticated() {
		return fmt.Errorf("not logged in, run 'cinewatch login' first")
	}
	return nil
}

// statusErr surfaces an operation failure recorded in the status slot.
func statusErr(a *app.App) error {
	if msg := a.Status.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

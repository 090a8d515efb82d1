// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refcard-panel CLI, a client for
// the reference card conversion server: it collects local game binding
// files, uploads them to the per-game endpoint and shows or saves the
// generated cards.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refcard-panel/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and logger are populated before any subcommand runs.
var (
	cfg    types.Config
	logger *slog.Logger
)

// rootCmd is the base command for the refcard-panel CLI.
var rootCmd = &cobra.Command{
	Use:   "refcard-panel",
	Short: "Upload game binding files and collect generated reference cards",
	Long: `refcard-panel drives the reference card server from the command line.
Each configured game has its own panel: a pending list of local files that is
posted as one multipart upload to the game's endpoint (by default
/api/<game>). The server answers with markup embedding the generated cards.

Use upload for a one-shot run and panel for an interactive session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger = newLogger(os.Stderr, cfg.Log)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refcard-panel.yaml or ~/.config/refcard-panel/config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "base URL of the reference card server")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refcard-panel")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refcard-panel"))
		}
	}

	viper.SetEnvPrefix("REFCARD_PANEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(types.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every scalar key so that environment variables
// can override keys absent from the config file.
func setDefaults(d types.Config) {
	viper.SetDefault("server", d.Server)
	viper.SetDefault("route", d.Route)
	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)
	viper.SetDefault("http.max_retries", d.HTTP.MaxRetries)
	viper.SetDefault("panel.trust", string(d.Panel.Trust))
	viper.SetDefault("panel.out_dir", d.Panel.OutDir)
	viper.SetDefault("history.enabled", d.History.Enabled)
	viper.SetDefault("history.dir", d.History.Dir)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
}

// loadConfig decodes and validates the merged viper settings.
func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if len(c.Games) == 0 {
		c.Games = types.DefaultConfig().Games
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// newLogger builds the developer log. Upload failures surface here.
func newLogger(w io.Writer, lc types.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

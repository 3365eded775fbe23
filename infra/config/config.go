package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// MaxPageSize is the largest page the feed endpoints accept.
const MaxPageSize = 100

// Config holds application-level configuration.
type Config struct {
	Handle    string
	Password  string
	PDS       string         // e.g. "https://bsky.social"
	PageSize  int            // Posts requested per feed page
	LogLevel  string
	ConfigDir string         // Holds the log and UI state files
	Location  *time.Location // Zone timestamps are shown in
}

type envVars struct {
	Handle    string `env:"BSKY_HANDLE,required"`
	Password  string `env:"BSKY_PASSWORD,required"`
	Timezone  string `env:"TIMEZONE,default=America/Chicago"`
	PDS       string `env:"SKYTERM_PDS,default=https://bsky.social"`
	PageSize  int    `env:"SKYTERM_PAGE_SIZE,default=30"`
	LogLevel  string `env:"SKYTERM_LOG_LEVEL,default=info"`
	ConfigDir string `env:"SKYTERM_CONFIG_DIR"`
}

// LogPath is the log file inside the config directory.
func (c Config) LogPath() string { return filepath.Join(c.ConfigDir, "skyterm.log") }

// UIStatePath is the UI state file inside the config directory.
func (c Config) UIStatePath() string { return filepath.Join(c.ConfigDir, "ui_state.yaml") }

// Load reads configuration from the environment, then from envFile.
// Process environment wins over the file. A missing envFile is not an error.
//
//	BSKY_HANDLE         account handle (required)
//	BSKY_PASSWORD       app password (required)
//	TIMEZONE            IANA zone for timestamps (default: America/Chicago)
//	SKYTERM_PDS         PDS URL, https only (default: https://bsky.social)
//	SKYTERM_PAGE_SIZE   posts per page, 1..100 (default: 30)
//	SKYTERM_LOG_LEVEL   debug, info, warn, error (default: info)
//	SKYTERM_CONFIG_DIR  state and log dir (default: ~/.config/skyterm)
func Load(ctx context.Context, envFile string) (Config, error) {
	lookupers := []envconfig.Lookuper{envconfig.OsLookuper()}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
		if len(values) > 0 {
			lookupers = append(lookupers, envconfig.MapLookuper(values))
		}
	}

	var ev envVars
	if err := envconfig.ProcessWith(ctx, &ev, envconfig.MultiLookuper(lookupers...)); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	cfg := Config{
		Handle:    strings.TrimPrefix(strings.TrimSpace(ev.Handle), "@"),
		Password:  ev.Password,
		PageSize:  min(max(ev.PageSize, 1), MaxPageSize),
		LogLevel:  strings.ToLower(strings.TrimSpace(ev.LogLevel)),
		ConfigDir: ev.ConfigDir,
	}
	if cfg.Handle == "" || cfg.Password == "" {
		return Config{}, fmt.Errorf("BSKY_HANDLE and BSKY_PASSWORD must not be empty")
	}

	pds, err := normalizePDS(ev.PDS)
	if err != nil {
		return Config{}, err
	}
	cfg.PDS = pds

	cfg.Location, err = time.LoadLocation(ev.Timezone)
	if err != nil {
		cfg.Location = time.UTC
	}

	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfg.ConfigDir = filepath.Join(home, ".config", "skyterm")
	}

	return cfg, nil
}

func normalizePDS(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid SKYTERM_PDS: must be an absolute URL")
	}
	if parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid SKYTERM_PDS: only https is allowed")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

// Package launcher merges a node's compiled-in defaults, an optional JSON
// config file, and CLI flag overrides into one Config, then brings up the
// ledger and HTTP server described by it. The merge order mirrors the
// teacher's opera launcher: defaults first, config file next, explicit CLI
// flags last and always win.
package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-voting-chain/cmd/internal/cfgutil"
	"github.com/rony4d/go-voting-chain/integration"
)

// Config aggregates everything a node process needs to start.
type Config struct {
	DataDir  string
	Election ElectionConfig
	HTTP     HTTPConfig
	Ledger   LedgerConfig
	Logging  LoggingConfig
}

// ElectionConfig points at the election this node serves.
type ElectionConfig struct {
	Path string // path to the election config JSON
}

// HTTPConfig is the node's listening address.
type HTTPConfig struct {
	Addr string
	Port int
}

// LedgerConfig controls where the ledger lives and how it's tuned.
type LedgerConfig struct {
	Path          string // defaults to <DataDir>/ledger.db
	Preset        string // "lite" or "durable"; BatchSize/BatchInterval/NoSync override it when set
	BatchSize     int
	BatchInterval string
	NoSync        bool
}

// LoggingConfig controls the shared logger (see the logging package).
type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

func defaultConfig() Config {
	cfg := DefaultConfig()
	cfg.DataDir = filepath.Join(cfgutil.GuessHomeDir(), ".go-voting-chain", "node")
	return cfg
}

// MakeConfig merges defaults, an optional config file, and CLI overrides,
// then ensures the resulting data directory exists.
func MakeConfig(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("launcher: loading config file %s: %w", file, err)
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if err := cfgutil.EnsureDir(cfg.DataDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LedgerPath resolves the effective bbolt file path, defaulting under
// DataDir when Ledger.Path wasn't set explicitly.
func (c Config) LedgerPath() string {
	if c.Ledger.Path != "" {
		return cfgutil.ResolvePath(c.Ledger.Path)
	}
	return filepath.Join(c.DataDir, "ledger.db")
}

// ResolvedPreset applies c.Ledger.Preset and layers any explicit BatchSize/
// BatchInterval/NoSync overrides on top of it.
func (c Config) ResolvedPreset() (integration.PresetConfig, error) {
	preset, err := integration.GetPresetByName(c.Ledger.Preset)
	if err != nil {
		return integration.PresetConfig{}, err
	}
	if c.Ledger.BatchSize > 0 {
		preset.BatchSize = c.Ledger.BatchSize
	}
	if c.Ledger.BatchInterval != "" {
		preset.BatchInterval = c.Ledger.BatchInterval
	}
	if c.Ledger.NoSync {
		preset.NoSync = true
	}
	return preset, nil
}

// BatchIntervalDuration parses a resolved preset's BatchInterval string.
func BatchIntervalDuration(preset integration.PresetConfig) (time.Duration, error) {
	d, err := time.ParseDuration(preset.BatchInterval)
	if err != nil {
		return 0, fmt.Errorf("launcher: invalid batch interval %q: %w", preset.BatchInterval, err)
	}
	return d, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("datadir") {
		cfg.DataDir = cfgutil.ResolvePath(ctx.String("datadir"))
	}
	if ctx.IsSet("election") {
		cfg.Election.Path = cfgutil.ResolvePath(ctx.String("election"))
	}
	if ctx.IsSet("http.addr") {
		cfg.HTTP.Addr = ctx.String("http.addr")
	}
	if ctx.IsSet("http.port") {
		cfg.HTTP.Port = ctx.Int("http.port")
	}
	if ctx.IsSet("ledger") {
		cfg.Ledger.Path = ctx.String("ledger")
	}
	if ctx.IsSet("preset") {
		cfg.Ledger.Preset = ctx.String("preset")
	}
	if ctx.IsSet("batch.size") {
		cfg.Ledger.BatchSize = ctx.Int("batch.size")
	}
	if ctx.IsSet("batch.interval") {
		cfg.Ledger.BatchInterval = ctx.Duration("batch.interval").String()
	}
	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.String("sentry.dsn")
	}
}

// Package launcher merges an authority's compiled-in defaults, an optional
// JSON config file, and CLI flag overrides into one Config, then brings up
// the blind-signing service and HTTP server described by it.
package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-voting-chain/cmd/internal/cfgutil"
)

// Config aggregates everything an authority process needs to start.
type Config struct {
	DataDir string
	HTTP    HTTPConfig
	KeyFile KeyFileConfig
	Logging LoggingConfig
}

// HTTPConfig is the authority's listening address.
type HTTPConfig struct {
	Addr string
	Port int
}

// KeyFileConfig controls where the authority's RSA key pair is stored.
type KeyFileConfig struct {
	Path        string // defaults to <DataDir>/authority.json
	GenerateNew bool   // discard any existing key pair at startup
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
	cfg.DataDir = filepath.Join(cfgutil.GuessHomeDir(), ".go-voting-chain", "authority")
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

// KeyFilePath resolves the effective key-pair file path, defaulting under
// DataDir when KeyFile.Path wasn't set explicitly.
func (c Config) KeyFilePath() string {
	if c.KeyFile.Path != "" {
		return cfgutil.ResolvePath(c.KeyFile.Path)
	}
	return filepath.Join(c.DataDir, "authority.json")
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
	if ctx.IsSet("http.addr") {
		cfg.HTTP.Addr = ctx.String("http.addr")
	}
	if ctx.IsSet("http.port") {
		cfg.HTTP.Port = ctx.Int("http.port")
	}
	if ctx.IsSet("keyfile") {
		cfg.KeyFile.Path = ctx.String("keyfile")
	}
	if ctx.IsSet("generate-new") {
		cfg.KeyFile.GenerateNew = ctx.Bool("generate-new")
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

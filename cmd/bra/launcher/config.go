// This file maps the CLI context and an optional TOML file onto the Config struct.

package launcher

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bra/integration"
)

// Config aggregates every setting the launcher needs.
type Config struct {
	Reader  ReaderConfig
	Logging LoggingConfig
}

type ReaderConfig struct {
	Input        string
	Repeat       int
	Preset       string
	Capacity     int
	ChunkSize    int
	CompactAfter int
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

//	defaultConfig copies DefaultConfig from defaults.go so both stay in sync.

func defaultConfig() Config {
	d := DefaultConfig()
	return Config{
		Reader: ReaderConfig{
			Input:        d.Reader.Input,
			Repeat:       d.Reader.Repeat,
			Preset:       d.Reader.Preset,
			Capacity:     d.Reader.Capacity,
			ChunkSize:    d.Reader.ChunkSize,
			CompactAfter: d.Reader.CompactAfter,
		},
		Logging: LoggingConfig{
			Verbosity: d.Logging.Verbosity,
			Format:    d.Logging.Format,
			Color:     d.Logging.Color,
			SentryDSN: d.Logging.SentryDSN,
		},
	}
}

// MakeAllConfigs merges, in order of increasing precedence: defaults, the
// named preset, the config file and CLI flags. The preset name itself may
// come from the file or from --preset, the flag winning.

func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	var raw []byte
	if file := ctx.String("config"); file != "" {
		data, err := ioutil.ReadFile(resolvePath(file))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		raw = data
	}

	name := DefaultConfig().Reader.Preset
	if raw != nil {
		peek := defaultConfig()
		if err := loadConfig(raw, &peek); err != nil {
			return Config{}, err
		}
		name = peek.Reader.Preset
	}
	if ctx.IsSet("preset") {
		name = ctx.String("preset")
	}

	cfg := defaultConfig()
	if err := applyPreset(&cfg.Reader, name); err != nil {
		return Config{}, err
	}
	if raw != nil {
		if err := loadConfig(raw, &cfg); err != nil {
			return Config{}, err
		}
		cfg.Reader.Preset = name
	}

	applyCLIOverrides(ctx, &cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Config-file / preset / CLI wiring
// -----------------------------------------------------------------------------

func loadConfig(raw []byte, cfg *Config) error {
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

func applyPreset(cfg *ReaderConfig, name string) error {
	preset, err := integration.GetPresetByName(name)
	if err != nil {
		return err
	}
	target := integration.PresetConfig{
		Name:         cfg.Preset,
		Capacity:     cfg.Capacity,
		ChunkSize:    cfg.ChunkSize,
		CompactAfter: cfg.CompactAfter,
	}
	integration.ApplyPreset(&target, preset)

	cfg.Preset = target.Name
	cfg.Capacity = target.Capacity
	cfg.ChunkSize = target.ChunkSize
	cfg.CompactAfter = target.CompactAfter
	return nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("input") {
		cfg.Reader.Input = ctx.String("input")
	}
	if ctx.IsSet("repeat") {
		cfg.Reader.Repeat = ctx.Int("repeat")
	}
	if ctx.IsSet("capacity") {
		cfg.Reader.Capacity = ctx.Int("capacity")
	}
	if ctx.IsSet("chunk") {
		cfg.Reader.ChunkSize = ctx.Int("chunk")
	}
	if ctx.IsSet("compact") {
		cfg.Reader.CompactAfter = ctx.Int("compact")
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

func (cfg Config) validate() error {
	r := cfg.Reader
	if r.Repeat < -1 || r.Repeat > 255 {
		return fmt.Errorf("repeat byte %d out of range (0-255, or -1 to read --input)", r.Repeat)
	}
	if r.Capacity < 0 {
		return fmt.Errorf("negative capacity %d", r.Capacity)
	}
	if r.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", r.ChunkSize)
	}
	if r.CompactAfter < 0 {
		return fmt.Errorf("negative compaction threshold %d", r.CompactAfter)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (valid: text, json)", cfg.Logging.Format)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func resolvePath(p string) string {
	if p == "-" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}

package config

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/convert"
	"github.com/wippyai/textconv/errors"
	"github.com/wippyai/textconv/transcoder"
)

// Config holds conversion and logging settings.
type Config struct {
	DefaultEncoding string `toml:"default_encoding"`
	CodePage        string `toml:"code_page"`
	DefaultChar     string `toml:"default_char"`
	Log             Log    `toml:"log"`
	MaxScan         int    `toml:"max_scan"`
	MaxAlloc        int    `toml:"max_alloc"`
}

// Log configures the zap logger built by Logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CodePage:    "1252",
		DefaultChar: "?",
		MaxScan:     charset.DefaultMaxScan,
		MaxAlloc:    convert.DefaultMaxAlloc,
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read "+path)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode toml")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(keys).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := charset.Parse(c.DefaultEncoding); err != nil {
		return err
	}
	if _, err := c.Transcoder(); err != nil {
		return err
	}
	if _, err := c.defaultChar(); err != nil {
		return err
	}
	if c.MaxScan < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "max_scan must not be negative")
	}
	if c.MaxAlloc < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "max_alloc must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Log.Format).
			Detail("log.format must be console or json, got %q", c.Log.Format).
			Build()
	}
	return nil
}

// Encoding returns the configured default encoding resolved to a concrete tag.
func (c *Config) Encoding() charset.Encoding {
	enc, err := charset.Parse(c.DefaultEncoding)
	if err != nil {
		return charset.BuildDefault
	}
	return enc.Resolve(charset.BuildDefault)
}

// Transcoder builds the configured code page.
func (c *Config) Transcoder() (*transcoder.CodePage, error) {
	name := c.CodePage
	if name == "" {
		name = "1252"
	}
	b, err := c.defaultChar()
	if err != nil {
		return nil, err
	}
	cp, err := transcoder.ByName(name, transcoder.WithDefaultChar(b))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindOf(err), err, "code_page")
	}
	return cp, nil
}

// Converter builds a converter with the configured code page and limits.
func (c *Config) Converter() (*convert.Converter, error) {
	cp, err := c.Transcoder()
	if err != nil {
		return nil, err
	}
	return convert.New(cp,
		convert.WithMaxScan(c.MaxScan),
		convert.WithAllocator(convert.HeapAllocator{MaxUnits: c.MaxAlloc}),
	), nil
}

// Logger builds a zap logger from the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	var zc zap.Config
	if c.Log.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

func (c *Config) defaultChar() (byte, error) {
	switch len(c.DefaultChar) {
	case 0:
		return '?', nil
	case 1:
		if c.DefaultChar[0] == 0 {
			break
		}
		return c.DefaultChar[0], nil
	}
	return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(c.DefaultChar).
		Detail("default_char must be a single non-zero byte, got %q", c.DefaultChar).
		Build()
}

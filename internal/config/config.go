// Package config loads CLI settings from a config file, SCHEMAMATCH_*
// environment variables and command flags.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"
)

// EnvPrefix marks environment variables read as config keys:
// SCHEMAMATCH_LOG_LEVEL sets log-level.
const EnvPrefix = "SCHEMAMATCH_"

// FileNames are searched for in the working directory when no explicit
// config path is given.
var FileNames = []string{"schemamatch.json", "schemamatch.yaml", "schemamatch.yml"}

// Config is the resolved CLI configuration.
type Config struct {
	Lang      string `koanf:"lang"`
	LogLevel  string `koanf:"log-level"`
	LogFormat string `koanf:"log-format"`
	FailFast  bool   `koanf:"fail-fast"`
	// Definitions is a file holding a definitions object used for $ref
	// resolution by every command.
	Definitions string `koanf:"definitions"`
	// Package is the default package clause for gen.
	Package string `koanf:"package"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Lang:      "en",
		LogLevel:  "info",
		LogFormat: "auto",
		Package:   "schema",
	}
}

// Load resolves configuration from defaults, then the config file (path,
// or the first of FileNames found in dir), then the environment. Flags are
// applied separately with ApplyFlags.
func Load(path, dir string) (*Config, error) {
	k := koanf.New(".")
	cfg := Defaults()

	if path == "" {
		path = discover(dir)
	}
	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		cfg.File = path
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func discover(dir string) string {
	if dir == "" {
		return ""
	}
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadFile(k *koanf.Koanf, path string) error {
	ext := filepath.Ext(path)

	var parser koanf.Parser
	switch ext {
	case ".json":
		parser = json.Parser()
	default:
		parser = yaml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		if ext == "" {
			if err := k.Load(file.Provider(path), json.Parser()); err != nil {
				return fmt.Errorf("config file must be JSON or YAML: %w", err)
			}
			return nil
		}
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func loadEnv(k *koanf.Koanf) error {
	// SCHEMAMATCH_FAIL_FAST -> fail-fast
	return k.Load(env.ProviderWithValue(EnvPrefix, "", func(key, value string) (string, interface{}) {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, EnvPrefix), "_", "-")), value
	}), nil)
}

// ApplyFlags overrides c with every flag the user set explicitly on cmd or
// one of its parents.
func (c *Config) ApplyFlags(cmd *cli.Command) {
	if cmd.IsSet("lang") {
		c.Lang = cmd.String("lang")
	}
	if cmd.IsSet("log-level") {
		c.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		c.LogFormat = cmd.String("log-format")
	}
	if cmd.IsSet("fail-fast") {
		c.FailFast = cmd.Bool("fail-fast")
	}
	if cmd.IsSet("definitions") {
		c.Definitions = cmd.String("definitions")
	}
	if cmd.IsSet("package") {
		c.Package = cmd.String("package")
	}
}

type ctxKey struct{}

// WithContext stores c in ctx.
func WithContext(ctx context.Context, c *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// From returns the configuration stored in ctx, or the defaults.
func From(ctx context.Context) *Config {
	if c, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return c
	}
	d := Defaults()
	return &d
}

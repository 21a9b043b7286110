// Package config loads the translations tool configuration from a YAML
// file overlaid with TRANSLATIONS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/ratelimit"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TRANSLATIONS_"

// Config is the full tool configuration.
type Config struct {
	Database DatabaseConfig         `yaml:"database" envPrefix:"DB_"`
	Locales  []string               `yaml:"locales" env:"LOCALES" envSeparator:","`
	Tables   map[string]TableConfig `yaml:"tables"`
	Enums    map[string][]string    `yaml:"enums"`
	Remote   RemoteConfig           `yaml:"remote" envPrefix:"REMOTE_"`
	Dispatch DispatchConfig         `yaml:"dispatch" envPrefix:"DISPATCH_"`
}

// DatabaseConfig selects the SQL store.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	DSN    string `yaml:"dsn" env:"DSN"`
	Debug  bool   `yaml:"debug" env:"DEBUG"`
}

// TableConfig whitelists a table for schema and content translations.
type TableConfig struct {
	Columns     []string `yaml:"columns"`
	IDColumn    string   `yaml:"id_column"`
	LabelColumn string   `yaml:"label_column"`
}

// RemoteConfig points at a translations admin API used instead of a local database.
type RemoteConfig struct {
	BaseURL   string           `yaml:"base_url" env:"BASE_URL"`
	Token     string           `yaml:"token" env:"TOKEN"`
	RateLimit ratelimit.Config `yaml:"rate_limit"`
}

// Enabled reports whether a remote gateway is configured.
func (r RemoteConfig) Enabled() bool {
	return r.BaseURL != ""
}

// DispatchConfig tunes the save dispatcher.
type DispatchConfig struct {
	MaxConcurrentWrites int `yaml:"max_concurrent_writes" env:"MAX_CONCURRENT_WRITES"`
}

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DefaultConfig returns a local SQLite setup with English as the only locale.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Driver: DriverSQLite, DSN: "file:translations.db?cache=shared"},
		Locales:  []string{"en-US"},
		Dispatch: DispatchConfig{MaxConcurrentWrites: 8},
		Remote:   RemoteConfig{RateLimit: ratelimit.DefaultConfig()},
	}
}

func applyDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = def.Database.Driver
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == DriverSQLite {
		cfg.Database.DSN = def.Database.DSN
	}
	if len(cfg.Locales) == 0 {
		cfg.Locales = def.Locales
	}
	if cfg.Dispatch.MaxConcurrentWrites <= 0 {
		cfg.Dispatch.MaxConcurrentWrites = def.Dispatch.MaxConcurrentWrites
	}
	cfg.Remote.RateLimit = ratelimit.ApplyDefaults(cfg.Remote.RateLimit)
	for name, t := range cfg.Tables {
		if t.IDColumn == "" {
			t.IDColumn = "id"
		}
		if t.LabelColumn == "" {
			t.LabelColumn = t.IDColumn
		}
		cfg.Tables[name] = t
	}
	return cfg
}

// Parse decodes YAML bytes, applies environment overrides and defaults,
// and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Config{Remote: RemoteConfig{RateLimit: ratelimit.DefaultConfig()}}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg = applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the YAML file at path. An empty path uses environment
// variables and defaults only.
func Load(path string) (Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// ParseEnv loads TRANSLATIONS_* environment variables into target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks driver selection and that every whitelisted table and
// column is a plain SQL identifier.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" && !c.Remote.Enabled() {
		return errors.New("database dsn is required")
	}
	for name, t := range c.Tables {
		if !identifier.MatchString(name) {
			return fmt.Errorf("table %q is not a valid identifier", name)
		}
		cols := append([]string{t.IDColumn, t.LabelColumn}, t.Columns...)
		for _, col := range cols {
			if !identifier.MatchString(col) {
				return fmt.Errorf("column %q of table %s is not a valid identifier", col, name)
			}
		}
	}
	return nil
}

// TableNames returns the whitelisted tables, sorted.
func (c Config) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for name := range c.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the whitelisted columns of table.
func (c Config) Columns(table string) ([]string, bool) {
	t, ok := c.Tables[table]
	if !ok {
		return nil, false
	}
	return append([]string(nil), t.Columns...), true
}

// EnumNames returns the configured enum names, sorted.
func (c Config) EnumNames() []string {
	names := make([]string, 0, len(c.Enums))
	for name := range c.Enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnumValues returns the configured values of enum.
func (c Config) EnumValues(enum string) ([]string, bool) {
	vals, ok := c.Enums[enum]
	if !ok {
		return nil, false
	}
	return append([]string(nil), vals...), true
}

// RecordColumns returns the id and label columns used to list records of
// a whitelisted table.
func (c Config) RecordColumns(table string) (id, label string, ok bool) {
	t, ok := c.Tables[table]
	if !ok {
		return "", "", false
	}
	return t.IDColumn, t.LabelColumn, true
}

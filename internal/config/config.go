// Package config provides Viper-based configuration loading for the simulator.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SimulationConfig holds the balance constants and run limits.
type SimulationConfig struct {
	// TicksPerSecond is the number of ticks in one simulated second.
	TicksPerSecond int `mapstructure:"ticks_per_second"`
	// CooldownScale multiplies every boss cooldown before tick conversion.
	CooldownScale float64 `mapstructure:"cooldown_scale"`
	// MaxTicks ends a run as a timeout; 0 means no limit.
	MaxTicks int `mapstructure:"max_ticks"`
	// LogCapacity bounds the retained combat log; 0 means unbounded.
	LogCapacity int `mapstructure:"log_capacity"`
	// FloatingCapacity bounds the floating-number ring.
	FloatingCapacity int `mapstructure:"floating_capacity"`
	// Seed seeds the random source; 0 draws a seed from crypto/rand.
	Seed                  uint64  `mapstructure:"seed"`
	BlockReduction        float64 `mapstructure:"block_reduction"`
	CriticalHealthPercent float64 `mapstructure:"critical_health_percent"`
	TravelSeconds         float64 `mapstructure:"travel_seconds"`
	PlayerDamageReduction float64 `mapstructure:"player_damage_reduction"`
}

// ContentConfig locates content outside the embedded catalog.
type ContentConfig struct {
	// CatalogDir overrides the embedded skill and ability catalog when set.
	CatalogDir string `mapstructure:"catalog_dir"`
	// EnemiesDir holds enemy template YAML files.
	EnemiesDir string `mapstructure:"enemies_dir"`
}

// ScriptingConfig holds Lua settings.
type ScriptingConfig struct {
	// ScriptDir is the root holding boss/ and usage/ script directories;
	// empty disables scripting.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit is the opcode budget of one hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File receives log output when set; otherwise logs go to stderr so
	// stdout carries only the encounter report.
	File string `mapstructure:"file"`
}

// ReportsConfig controls archiving of encounter reports.
type ReportsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Reports    ReportsConfig    `mapstructure:"reports"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when reports are enabled.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if c.Reports.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TicksPerSecond < 1 {
		errs = append(errs, fmt.Sprintf("simulation.ticks_per_second must be >= 1, got %d", s.TicksPerSecond))
	}
	if s.CooldownScale <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.cooldown_scale must be > 0, got %g", s.CooldownScale))
	}
	if s.MaxTicks < 0 || s.LogCapacity < 0 {
		errs = append(errs, "simulation.max_ticks and simulation.log_capacity must not be negative")
	}
	if s.FloatingCapacity < 1 {
		errs = append(errs, fmt.Sprintf("simulation.floating_capacity must be >= 1, got %d", s.FloatingCapacity))
	}
	if s.BlockReduction < 0 || s.BlockReduction > 1 {
		errs = append(errs, fmt.Sprintf("simulation.block_reduction must be in [0, 1], got %g", s.BlockReduction))
	}
	if s.PlayerDamageReduction < 0 || s.PlayerDamageReduction >= 1 {
		errs = append(errs, fmt.Sprintf("simulation.player_damage_reduction must be in [0, 1), got %g", s.PlayerDamageReduction))
	}
	if s.CriticalHealthPercent < 0 || s.CriticalHealthPercent > 100 {
		errs = append(errs, fmt.Sprintf("simulation.critical_health_percent must be in [0, 100], got %g", s.CriticalHealthPercent))
	}
	if s.TravelSeconds < 0 {
		errs = append(errs, "simulation.travel_seconds must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DELVE_ prefix
	v.SetEnvPrefix("DELVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.ticks_per_second", 10)
	v.SetDefault("simulation.cooldown_scale", 0.4)
	v.SetDefault("simulation.max_ticks", 36000)
	v.SetDefault("simulation.log_capacity", 5000)
	v.SetDefault("simulation.floating_capacity", 64)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.block_reduction", 0.5)
	v.SetDefault("simulation.critical_health_percent", 35)
	v.SetDefault("simulation.travel_seconds", 3)
	v.SetDefault("simulation.player_damage_reduction", 0)

	v.SetDefault("content.catalog_dir", "")
	v.SetDefault("content.enemies_dir", "content/enemies")

	v.SetDefault("scripting.script_dir", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "delve")
	v.SetDefault("database.password", "delve")
	v.SetDefault("database.name", "delve")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")

	v.SetDefault("reports.enabled", false)
}

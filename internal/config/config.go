// Package config provides Viper-based configuration loading for the RadMud server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds top-level server settings.
type ServerConfig struct {
	// Name is shown in the telnet banner.
	Name string `mapstructure:"name"`
	// ShutdownTimeout bounds the graceful stop of every service.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
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

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Charset is the client encoding: "utf-8" or "latin-1".
	Charset string `mapstructure:"charset"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// TickConfig holds the game loop cadence.
type TickConfig struct {
	// Tic is the interval of vitals regeneration and effect expiry.
	Tic time.Duration `mapstructure:"tic"`
	// Hour is the real duration of one in-game hour.
	Hour time.Duration `mapstructure:"hour"`
	// PollTimeout bounds how long the loop waits for a command.
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	// StartHour is the in-game hour at boot.
	StartHour int `mapstructure:"start_hour"`
	// ReviveDelay is how long a dead player waits before respawning.
	ReviveDelay time.Duration `mapstructure:"revive_delay"`
	// QueueSize is the capacity of the command channel.
	QueueSize int `mapstructure:"queue_size"`
}

// WorldConfig locates the static content.
type WorldConfig struct {
	ZonesDir               string `mapstructure:"zones_dir"`
	ModelsFile             string `mapstructure:"models_file"`
	ScriptsDir             string `mapstructure:"scripts_dir"`
	ScriptInstructionLimit int    `mapstructure:"script_instruction_limit"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "postgres" or "bolt".
	Backend string `mapstructure:"backend"`
	// BoltPath is the database file of the bolt backend.
	BoltPath string `mapstructure:"bolt_path"`
	// QueueSize is the capacity of the persistence journal.
	QueueSize int `mapstructure:"queue_size"`
}

// AdminConfig holds the health and metrics endpoints.
type AdminConfig struct {
	GRPCHost    string `mapstructure:"grpc_host"`
	GRPCPort    int    `mapstructure:"grpc_port"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Addr returns the "host:port" gRPC address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (a AdminConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.GRPCHost, a.GRPCPort)
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Telnet   TelnetConfig   `mapstructure:"telnet"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tick     TickConfig     `mapstructure:"tick"`
	World    WorldConfig    `mapstructure:"world"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	checks := []error{
		validateServer(c.Server),
		validateTelnet(c.Telnet),
		validateLogging(c.Logging),
		validateTick(c.Tick),
		validateWorld(c.World),
		validateStorage(c.Storage),
		validateAdmin(c.Admin),
	}
	if c.Storage.Backend == "postgres" {
		checks = append(checks, validateDatabase(c.Database))
	}
	for _, err := range checks {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	if s.Name == "" {
		return errors.New("server.name must not be empty")
	}
	if s.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	return nil
}

func validPort(p int) bool { return p >= 1 && p <= 65535 }

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if !validPort(d.Port) {
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

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if !validPort(t.Port) {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.Charset != "utf-8" && t.Charset != "latin-1" {
		errs = append(errs, fmt.Sprintf("telnet.charset must be one of [utf-8, latin-1], got %q", t.Charset))
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

func validateTick(t TickConfig) error {
	var errs []string
	if t.Tic <= 0 {
		errs = append(errs, "tick.tic must be positive")
	}
	if t.Hour < t.Tic {
		errs = append(errs, "tick.hour must not be shorter than tick.tic")
	}
	if t.PollTimeout <= 0 || t.PollTimeout > t.Tic {
		errs = append(errs, "tick.poll_timeout must be positive and at most tick.tic")
	}
	if t.StartHour < 0 || t.StartHour > 23 {
		errs = append(errs, fmt.Sprintf("tick.start_hour must be 0-23, got %d", t.StartHour))
	}
	if t.ReviveDelay < 0 {
		errs = append(errs, "tick.revive_delay must not be negative")
	}
	if t.QueueSize < 1 {
		errs = append(errs, fmt.Sprintf("tick.queue_size must be >= 1, got %d", t.QueueSize))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateWorld(w WorldConfig) error {
	var errs []string
	if w.ZonesDir == "" {
		errs = append(errs, "world.zones_dir must not be empty")
	}
	if w.ModelsFile == "" {
		errs = append(errs, "world.models_file must not be empty")
	}
	if w.ScriptInstructionLimit < 0 {
		errs = append(errs, "world.script_instruction_limit must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	switch s.Backend {
	case "postgres":
	case "bolt":
		if s.BoltPath == "" {
			errs = append(errs, "storage.bolt_path must not be empty for the bolt backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.backend must be one of [postgres, bolt], got %q", s.Backend))
	}
	if s.QueueSize < 1 {
		errs = append(errs, fmt.Sprintf("storage.queue_size must be >= 1, got %d", s.QueueSize))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateAdmin(a AdminConfig) error {
	var errs []string
	if a.GRPCHost == "" {
		errs = append(errs, "admin.grpc_host must not be empty")
	}
	if !validPort(a.GRPCPort) {
		errs = append(errs, fmt.Sprintf("admin.grpc_port must be 1-65535, got %d", a.GRPCPort))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MUD_ prefix
	v.SetEnvPrefix("MUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
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
	v.SetDefault("server.name", "RadMud")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mud")
	v.SetDefault("database.password", "mud")
	v.SetDefault("database.name", "radmud")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "30m")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.charset", "utf-8")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("tick.tic", "3s")
	v.SetDefault("tick.hour", "1m")
	v.SetDefault("tick.poll_timeout", "500ms")
	v.SetDefault("tick.start_hour", 8)
	v.SetDefault("tick.revive_delay", "10s")
	v.SetDefault("tick.queue_size", 256)

	v.SetDefault("world.zones_dir", "content/zones")
	v.SetDefault("world.models_file", "content/models.toml")
	v.SetDefault("world.scripts_dir", "content/scripts")
	v.SetDefault("world.script_instruction_limit", 100000)

	v.SetDefault("storage.backend", "bolt")
	v.SetDefault("storage.bolt_path", "radmud.db")
	v.SetDefault("storage.queue_size", 1024)

	v.SetDefault("admin.grpc_host", "127.0.0.1")
	v.SetDefault("admin.grpc_port", 50051)
	v.SetDefault("admin.metrics_addr", "127.0.0.1:9100")
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/training"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Logging   LoggingConfig   `yaml:"logging"`
	Training  TrainingConfig  `yaml:"training"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Stdout bool   `yaml:"stdout"`
	JSON   bool   `yaml:"json"`
}

// TrainingConfig holds the defaults applied when a calculator request leaves
// a parameter out.
type TrainingConfig struct {
	BarWeight         float64       `yaml:"bar_weight"`
	RoundingIncrement float64       `yaml:"rounding_increment"`
	Formula           string        `yaml:"formula"`
	WarmupPreset      string        `yaml:"warmup_preset"`
	Percentages       []float64     `yaml:"percentages"`
	CacheMB           int           `yaml:"cache_mb"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// OneRMFormula returns the configured formula. Call after Load has validated it.
func (t TrainingConfig) OneRMFormula() training.Formula {
	f, err := training.ParseFormula(t.Formula)
	if err != nil {
		return training.Epley
	}
	return f
}

// Preset returns the configured warm-up preset. Call after Load has validated it.
func (t TrainingConfig) Preset() training.WarmupPreset {
	p, err := training.ParseWarmupPreset(t.WarmupPreset)
	if err != nil {
		return training.PresetStandard
	}
	return p
}

// Defaults returns a Config with every optional field filled in.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0"},
		Tailscale: TailscaleConfig{
			Hostname: "liftlog",
			StateDir: "tsnet-state",
		},
		Logging: LoggingConfig{Level: "info", Stdout: true},
		Training: TrainingConfig{
			BarWeight:         20,
			RoundingIncrement: 2.5,
			Formula:           string(training.Epley),
			WarmupPreset:      string(training.PresetStandard),
			Percentages:       append([]float64(nil), training.DefaultPercentages...),
			CacheMB:           8,
			CacheTTL:          10 * time.Minute,
		},
	}
}

// Load reads config from a YAML file on top of Defaults, then applies
// environment variable overrides. Env vars use the prefix LIFTLOG_ and
// underscore-separated paths:
//
//	LIFTLOG_SERVER_HOST, LIFTLOG_SERVER_PORT,
//	LIFTLOG_DB_HOST, LIFTLOG_DB_PORT, LIFTLOG_DB_NAME,
//	LIFTLOG_DB_USER, LIFTLOG_DB_PASSWORD, LIFTLOG_DB_SSLMODE,
//	LIFTLOG_AUTH_API_KEY, LIFTLOG_TAILSCALE_ENABLED, LIFTLOG_LOG_LEVEL,
//	LIFTLOG_LOG_FILE, LIFTLOG_BAR_WEIGHT, LIFTLOG_ROUNDING_INCREMENT,
//	LIFTLOG_FORMULA, LIFTLOG_WARMUP_PRESET
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LIFTLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIFTLOG_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LIFTLOG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LIFTLOG_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LIFTLOG_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LIFTLOG_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LIFTLOG_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("LIFTLOG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("LIFTLOG_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("LIFTLOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LIFTLOG_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	cfg.Training = TrainingFromEnv(cfg.Training)
}

// TrainingFromEnv applies the LIFTLOG_BAR_WEIGHT, LIFTLOG_ROUNDING_INCREMENT,
// LIFTLOG_FORMULA and LIFTLOG_WARMUP_PRESET overrides to t. Unparseable
// numbers are ignored.
func TrainingFromEnv(t TrainingConfig) TrainingConfig {
	if v := os.Getenv("LIFTLOG_BAR_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			t.BarWeight = f
		}
	}
	if v := os.Getenv("LIFTLOG_ROUNDING_INCREMENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			t.RoundingIncrement = f
		}
	}
	if v := os.Getenv("LIFTLOG_FORMULA"); v != "" {
		t.Formula = v
	}
	if v := os.Getenv("LIFTLOG_WARMUP_PRESET"); v != "" {
		t.WarmupPreset = v
	}
	return t
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	if _, err := training.ParseFormula(c.Training.Formula); err != nil {
		return fmt.Errorf("training.formula: %w", err)
	}
	if _, err := training.ParseWarmupPreset(c.Training.WarmupPreset); err != nil {
		return fmt.Errorf("training.warmup_preset: %w", err)
	}
	if c.Training.BarWeight < 0 {
		return fmt.Errorf("training.bar_weight must not be negative")
	}
	if c.Training.RoundingIncrement < 0 {
		return fmt.Errorf("training.rounding_increment must not be negative")
	}
	for _, p := range c.Training.Percentages {
		if p <= 0 || p > 2 {
			return fmt.Errorf("training.percentages: %v is outside (0, 2]", p)
		}
	}
	return nil
}

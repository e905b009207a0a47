package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPassword is used when neither the config file nor LOADPLAN_PASSWORD
// provide an access secret.
const DefaultPassword = "yukleme"

// Config is the full service configuration read from YAML.
type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    string `yaml:"port"`
		Prefork bool   `yaml:"prefork"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Assets AssetsConfig `yaml:"assets"`

	Access struct {
		Password string `yaml:"password"`
	} `yaml:"access"`

	Render struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"render"`

	RateLimiter struct {
		Interval  time.Duration `yaml:"interval"`
		UserLimit int           `yaml:"user_limit"`
	} `yaml:"rate_limiter"`

	Cache struct {
		RedisHost    string `yaml:"redis_host"`
		RateLimitDB  int    `yaml:"redis_rate_db"`
		StatsDB      int    `yaml:"redis_stats_db"`
		StatsEnabled bool   `yaml:"stats_enabled"`
	} `yaml:"cache"`

	Auth struct {
		Postgres       PostgresConfig `yaml:"postgres"`
		ReloadInterval time.Duration  `yaml:"reload_interval"`
	} `yaml:"auth"`
}

// AssetsConfig points at the font and logo files used by the renderer.
type AssetsConfig struct {
	FontRegular string `yaml:"font_regular"`
	FontBold    string `yaml:"font_bold"`
	Logo        string `yaml:"logo"`
}

// PostgresConfig describes the optional API token database. An empty Host
// disables token authentication.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = ":5000"
	cfg.Logger.Level = "info"
	cfg.Logger.MaxSizeMB = 10
	cfg.Logger.MaxBackups = 3
	cfg.Logger.MaxAgeDays = 28
	cfg.Assets.FontRegular = "fonts/DejaVuSans.ttf"
	cfg.Assets.FontBold = "fonts/DejaVuSans-Bold.ttf"
	cfg.Assets.Logo = "static/logo.png"
	cfg.Access.Password = DefaultPassword
	cfg.Render.Timezone = "Local"
	cfg.RateLimiter.Interval = time.Minute
	cfg.RateLimiter.UserLimit = 30
	cfg.Auth.ReloadInterval = time.Minute
	return cfg
}

// Load reads the file named by CONFIG_PATH (default config.yaml).
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the YAML file at path on top of Default. A
// missing file is not an error; an unreadable or invalid one panics.
func LoadFrom(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		panic(fmt.Sprintf("config: read %s: %v", path, err))
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			panic(fmt.Sprintf("config: parse %s: %v", path, err))
		}
	}

	if v, ok := os.LookupEnv("LOADPLAN_PASSWORD"); ok {
		cfg.Access.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = ":" + v
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Assets.FontRegular == "" || c.Assets.FontBold == "" {
		return errors.New("assets.font_regular and assets.font_bold are required")
	}
	if c.RateLimiter.Interval <= 0 {
		return errors.New("rate_limiter.interval must be positive")
	}
	if c.RateLimiter.UserLimit < 0 {
		return errors.New("rate_limiter.user_limit must not be negative")
	}
	if c.Auth.Postgres.Host != "" && c.Auth.ReloadInterval <= 0 {
		return errors.New("auth.reload_interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("render.timezone: %w", err)
	}
	return nil
}

// Location resolves render.timezone; empty means the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Render.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Render.Timezone)
}

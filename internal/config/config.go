package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config holds all user-facing configuration for gtd-map.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Server ServerConfig `toml:"server"`
	Months MonthsConfig `toml:"months"`
	World  WorldConfig  `toml:"world"`
	Jitter JitterConfig `toml:"jitter"`
	Rank   RankConfig   `toml:"rank"`
	Log    LogConfig    `toml:"log"`
}

// DataConfig locates the dataset. CSV is the GTD export; Dir holds the DuckDB
// cache written by `gtd-map import`.
type DataConfig struct {
	Dir string `toml:"dir" validate:"required"`
	CSV string `toml:"csv"`
}

type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port" validate:"gte=0,lte=65535"`
	RateLimit float64 `toml:"rate_limit" validate:"gte=0"` // requests per second per client, 0 disables
	Burst     int     `toml:"burst" validate:"gte=0"`
}

// MonthsConfig is the span of the month index behind the date sliders.
type MonthsConfig struct {
	StartYear    int `toml:"start_year" validate:"gte=1900"`
	EndYear      int `toml:"end_year" validate:"gtefield=StartYear"`
	DefaultStart int `toml:"default_start" validate:"gte=0"`
	DefaultEnd   int `toml:"default_end" validate:"gtefield=DefaultStart"`
}

// WorldConfig is the year span the world charts show when a request names
// none.
type WorldConfig struct {
	DefaultFrom int `toml:"default_from" validate:"gte=1900"`
	DefaultTo   int `toml:"default_to" validate:"gtefield=DefaultFrom"`
}

type JitterConfig struct {
	Mean     float64 `toml:"mean"`
	Sigma    float64 `toml:"sigma" validate:"gte=0"`
	ActorMap bool    `toml:"actor_map"`
}

// RankConfig sizes the top-countries rankings. At most 20 entries are kept.
type RankConfig struct {
	Limit int `toml:"limit" validate:"gte=1,lte=20"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data:   DataConfig{Dir: "data", CSV: "data/terrorism.csv"},
		Server: ServerConfig{Host: "localhost", Port: 8050, RateLimit: 20, Burst: 40},
		Months: MonthsConfig{StartYear: 1970, EndYear: 2016, DefaultStart: 480, DefaultEnd: 563},
		World:  WorldConfig{DefaultFrom: 2010, DefaultTo: 2016},
		Jitter: JitterConfig{Mean: 0.04, Sigma: 0.03},
		Rank:   RankConfig{Limit: 20},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that the default slider selection
// fits inside the month index.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	months := (c.Months.EndYear - c.Months.StartYear + 1) * 12
	if c.Months.DefaultEnd >= months {
		return fmt.Errorf("invalid config: months.default_end %d beyond %d months", c.Months.DefaultEnd, months)
	}
	return nil
}

// Package config loads credited.yaml and the environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/credited/internal/classify"
	"github.com/cleared-dev/credited/internal/extract"
	"github.com/cleared-dev/credited/internal/model"
	"github.com/cleared-dev/credited/internal/store"
	"github.com/cleared-dev/credited/internal/tax"
)

// DefaultPath is the config file used when neither --config nor
// CREDITED_CONFIG names one.
const DefaultPath = "credited.yaml"

// Environment variables that override the file.
const (
	EnvConfig   = "CREDITED_CONFIG"
	EnvLogLevel = "CREDITED_LOG_LEVEL"
	EnvDB       = "CREDITED_DB"
)

// Config represents the top-level credited.yaml configuration.
type Config struct {
	Profile    model.Profile   `yaml:"profile"`
	Tax        TaxConfig       `yaml:"tax"`
	Classifier classify.Config `yaml:"classifier"`
	Extractor  extract.Config  `yaml:"extractor"`
	Store      StoreConfig     `yaml:"store"`
	Server     ServerConfig    `yaml:"server"`
	OCR        OCRConfig       `yaml:"ocr"`
	LogLevel   string          `yaml:"log_level"`
}

// TaxConfig holds the progressive bracket schedule.
type TaxConfig struct {
	Brackets []BracketConfig `yaml:"brackets"`
}

// BracketConfig is one band. A missing upper_bound marks the unbounded top
// band.
type BracketConfig struct {
	UpperBound *float64 `yaml:"upper_bound,omitempty"`
	Rate       float64  `yaml:"rate"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite or memory
	Path   string `yaml:"path"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 disables
	Burst     int     `yaml:"burst"`
}

// OCRConfig controls screenshot recognition.
type OCRConfig struct {
	Language string        `yaml:"language"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Load reads a credited.yaml file from disk. Keys the file omits keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.TaxBrackets(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in keyword sets and brackets.
func Default() *Config {
	return &Config{
		Tax:        TaxConfig{Brackets: FromBrackets(tax.DefaultBrackets())},
		Classifier: classify.DefaultConfig(),
		Extractor:  extract.DefaultConfig(),
		Store: StoreConfig{
			Driver: store.DriverSQLite,
			Path:   "credited.db",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 5,
			Burst:     10,
		},
		OCR: OCRConfig{
			Language: "eng",
			CacheTTL: time.Hour,
		},
		LogLevel: "info",
	}
}

// TaxBrackets converts the configured schedule and validates it.
func (c *Config) TaxBrackets() ([]model.TaxBracket, error) {
	brackets := make([]model.TaxBracket, len(c.Tax.Brackets))
	for i, b := range c.Tax.Brackets {
		brackets[i].Rate = decimal.NewFromFloat(b.Rate)
		if b.UpperBound == nil {
			brackets[i].Unbounded = true
			continue
		}
		brackets[i].UpperBound = decimal.NewFromFloat(*b.UpperBound)
	}
	if err := tax.ValidateBrackets(brackets); err != nil {
		return nil, fmt.Errorf("tax.brackets: %w", err)
	}
	return brackets, nil
}

// FromBrackets is the inverse of TaxBrackets.
func FromBrackets(brackets []model.TaxBracket) []BracketConfig {
	out := make([]BracketConfig, len(brackets))
	for i, b := range brackets {
		out[i].Rate = b.Rate.InexactFloat64()
		if !b.Unbounded {
			upper := b.UpperBound.InexactFloat64()
			out[i].UpperBound = &upper
		}
	}
	return out
}

// ApplyEnv overrides file values from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvDB); v != "" {
		c.Store.Path = v
	}
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Path resolves the config file: the flag value when set, then
// CREDITED_CONFIG, then DefaultPath.
func Path(flag string, getenv func(string) string) string {
	if flag != "" {
		return flag
	}
	if v := getenv(EnvConfig); v != "" {
		return v
	}
	return DefaultPath
}

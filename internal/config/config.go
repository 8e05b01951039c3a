package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "fintrack.yaml"

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateRedisUse, Config{})
}

// Config represents the top-level fintrack.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Rates   RatesConfig   `yaml:"rates"`
	Log     LogConfig     `yaml:"log"`
	Import  ImportConfig  `yaml:"import"`
	History HistoryConfig `yaml:"history"`

	// dir is the directory of the loaded file; relative paths resolve against it.
	dir string
}

// StorageConfig selects where the dataset document lives.
type StorageConfig struct {
	Backend  string `yaml:"backend" validate:"oneof=file redis"`
	Path     string `yaml:"path" validate:"required_if=Backend file"`
	RedisURL string `yaml:"redis_url,omitempty" validate:"required_if=Backend redis"`
	RedisKey string `yaml:"redis_key" validate:"required_if=Backend redis"`
}

// RatesConfig controls the live exchange-rate lookup.
type RatesConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	TTL     time.Duration `yaml:"ttl" validate:"gt=0"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	Cache   string        `yaml:"cache" validate:"oneof=memory redis"`
}

// LogConfig controls diagnostic logging and the activity log.
type LogConfig struct {
	Level        string `yaml:"level" validate:"oneof=debug info warn error"`
	Format       string `yaml:"format" validate:"oneof=text json"`
	ActivityPath string `yaml:"activity_path,omitempty"` // empty disables the activity log
}

// ImportConfig controls batch statement imports.
type ImportConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// HistoryConfig controls the git history of the project directory.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name" validate:"required_if=Enabled true"`
	AuthorEmail string `yaml:"author_email" validate:"required_if=Enabled true"`
}

// Dir returns the directory of the loaded config file.
func (c *Config) Dir() string { return c.dir }

// validateRedisUse requires a redis URL when any component uses redis.
func validateRedisUse(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Rates.Cache == "redis" && cfg.Storage.RedisURL == "" {
		sl.ReportError(cfg.Storage.RedisURL, "RedisURL", "redis_url", "required_with_redis_cache", "")
	}
}

// Load reads a fintrack.yaml file from disk. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// LoadOrDefault is Load, but a missing file yields the defaults rooted at the
// file's directory.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.dir = filepath.Dir(path)
		return cfg, nil
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

// Validate checks field values and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Resolve returns p unchanged when absolute, otherwise relative to the
// config file's directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:  "file",
			Path:     "fintrack.json",
			RedisKey: "fintrack:dataset",
		},
		Rates: RatesConfig{
			URL:     "https://open.er-api.com/v6/latest/USD",
			TTL:     time.Hour,
			Timeout: 10 * time.Second,
			Cache:   "memory",
		},
		Log: LogConfig{
			Level:        "info",
			Format:       "text",
			ActivityPath: "logs/activity-log.csv",
		},
		Import: ImportConfig{
			Dir: "import",
		},
		History: HistoryConfig{
			AuthorName:  "fintrack",
			AuthorEmail: "fintrack@localhost",
		},
	}
}

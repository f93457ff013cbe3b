package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/strrl/style-dna/internal/gesture"
	"github.com/strrl/style-dna/internal/style"
)

// Config holds all style-dna configuration.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Backend BackendConfig `yaml:"backend"`
	Store   StoreConfig   `yaml:"store"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
}

// SessionConfig configures the swipe session controller.
type SessionConfig struct {
	UserID                   string             `yaml:"user_id"`
	Thresholds               gesture.Thresholds `yaml:"thresholds"`
	PersonalizationThreshold int                `yaml:"personalization_threshold"`
	QueueSize                int                `yaml:"queue_size"`   // swipe records buffered for the sink
	SinkTimeout              string             `yaml:"sink_timeout"` // per-record delivery timeout
}

// BackendConfig configures the StyleMind REST API client.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
}

type StoreConfig struct {
	Path string `yaml:"path"` // DuckDB file; empty means in-memory
}

// CatalogConfig selects where candidates come from and how they are filtered.
type CatalogConfig struct {
	Source        string `yaml:"source"` // seed, file, backend
	File          string `yaml:"file"`
	Gender        string `yaml:"gender"`
	StyleCategory string `yaml:"style_category"`
	Limit         int    `yaml:"limit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

const (
	SourceSeed    = "seed"
	SourceFile    = "file"
	SourceBackend = "backend"
)

func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			UserID:                   "local-user",
			Thresholds:               gesture.DefaultThresholds(),
			PersonalizationThreshold: style.DefaultPersonalizationThreshold,
			QueueSize:                64,
			SinkTimeout:              "10s",
		},
		Backend: BackendConfig{
			Timeout: "15s",
		},
		Store: StoreConfig{
			Path: "style-dna.duckdb",
		},
		Catalog: CatalogConfig{
			Source: SourceSeed,
			Limit:  20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STYLE_DNA_USER_ID"); v != "" {
		c.Session.UserID = v
	}
	if v := os.Getenv("STYLE_DNA_PERSONALIZATION_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.PersonalizationThreshold = n
		}
	}

	if v := os.Getenv("STYLE_DNA_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("STYLE_DNA_BACKEND_TOKEN"); v != "" {
		c.Backend.Token = v
	}

	if v := os.Getenv("STYLE_DNA_STORE_PATH"); v != "" {
		c.Store.Path = v
	}

	if v := os.Getenv("STYLE_DNA_CATALOG_SOURCE"); v != "" {
		c.Catalog.Source = v
	}
	if v := os.Getenv("STYLE_DNA_CATALOG_FILE"); v != "" {
		c.Catalog.File = v
	}

	if v := os.Getenv("STYLE_DNA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Session.Thresholds.Commit <= 0 {
		errs = append(errs, fmt.Errorf("session.thresholds.commit must be positive, got %v", c.Session.Thresholds.Commit))
	}
	if c.Session.Thresholds.Hint <= 0 {
		errs = append(errs, fmt.Errorf("session.thresholds.hint must be positive, got %v", c.Session.Thresholds.Hint))
	}
	if c.Session.PersonalizationThreshold <= 0 {
		errs = append(errs, fmt.Errorf("session.personalization_threshold must be positive, got %d", c.Session.PersonalizationThreshold))
	}
	if _, err := parseDuration(c.Session.SinkTimeout); err != nil {
		errs = append(errs, fmt.Errorf("session.sink_timeout: %w", err))
	}
	if _, err := parseDuration(c.Backend.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("backend.timeout: %w", err))
	}

	switch c.Catalog.Source {
	case SourceSeed:
	case SourceFile:
		if c.Catalog.File == "" {
			errs = append(errs, errors.New("catalog.file is required when catalog.source is file"))
		}
	case SourceBackend:
		if c.Backend.BaseURL == "" {
			errs = append(errs, errors.New("backend.base_url is required when catalog.source is backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown catalog.source %q", c.Catalog.Source))
	}

	if c.Catalog.StyleCategory != "" && !style.Category(c.Catalog.StyleCategory).IsValid() {
		errs = append(errs, fmt.Errorf("unknown catalog.style_category %q", c.Catalog.StyleCategory))
	}

	return errors.Join(errs...)
}

func (s SessionConfig) SinkTimeoutDuration() time.Duration {
	d, _ := parseDuration(s.SinkTimeout)
	return d
}

func (b BackendConfig) TimeoutDuration() time.Duration {
	d, _ := parseDuration(b.Timeout)
	return d
}

func (c CatalogConfig) Filter() style.Filter {
	return style.Filter{
		Gender:        style.Gender(c.Gender),
		StyleCategory: style.Category(c.StyleCategory),
		Limit:         c.Limit,
	}
}

// parseDuration treats an empty value as zero, meaning "use the default".
func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	return time.ParseDuration(value)
}

// Package config provides configuration management for the backtester.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/eddiefleurent/stamford_condor/internal/models"
)

const (
	// defaultServerPort is used when server.port is unset
	defaultServerPort = 8080
	// defaultParallelism keeps the engine sequential unless configured
	defaultParallelism = 1
)

// ErrMissingBound is returned (wrapped) when a trading date present in the
// data directory has no search-bound entry. The ladder scan has no seed
// strike without one, so the run must fail rather than guess.
var ErrMissingBound = errors.New("no search bound configured for date")

var datePattern = regexp.MustCompile(`^\d{8}$`)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig             `yaml:"environment"`
	Data        DataConfig                    `yaml:"data"`
	Server      ServerConfig                  `yaml:"server"`
	Engine      EngineConfig                  `yaml:"engine"`
	Fetch       FetchConfig                   `yaml:"fetch"`
	Bounds      map[string]models.SearchBound `yaml:"bounds"`
}

// EnvironmentConfig defines the environment settings.
type EnvironmentConfig struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// DataConfig locates the historical archive directory.
type DataConfig struct {
	// Dir holds one <YYYYMMDD>.zip archive per trading date.
	Dir string `yaml:"dir"`
}

// ServerConfig defines the HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// EngineConfig tunes the backtest engine.
type EngineConfig struct {
	// Parallelism is the number of dates simulated concurrently. Results
	// are always folded in date order, so any value yields identical stats.
	Parallelism int `yaml:"parallelism"`
}

// FetchConfig defines where daily archives are downloaded from.
type FetchConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultServerPort
	}
	if c.Engine.Parallelism == 0 {
		c.Engine.Parallelism = defaultParallelism
	}
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be one of debug|info|warn|error")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535]")
	}
	if c.Engine.Parallelism <= 0 {
		return fmt.Errorf("engine.parallelism must be > 0")
	}

	if len(c.Bounds) == 0 {
		return fmt.Errorf("bounds table is required")
	}
	for date, b := range c.Bounds {
		if !datePattern.MatchString(date) {
			return fmt.Errorf("bounds key %q must be a YYYYMMDD date", date)
		}
		if b.Lower <= 0 || b.Upper <= 0 {
			return fmt.Errorf("bounds[%s]: lower and upper must be > 0", date)
		}
		if b.Lower > b.Upper {
			return fmt.Errorf("bounds[%s]: lower (%d) must be <= upper (%d)", date, b.Lower, b.Upper)
		}
	}

	return nil
}

// BoundFor returns the search bound for a date, or a wrapped
// ErrMissingBound when the date has no entry.
func (c *Config) BoundFor(date string) (models.SearchBound, error) {
	b, ok := c.Bounds[date]
	if !ok {
		return models.SearchBound{}, fmt.Errorf("%w: %s", ErrMissingBound, date)
	}
	return b, nil
}

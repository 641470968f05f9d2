package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Predictor struct {
		URL           string        `yaml:"url"`
		Timeout       time.Duration `yaml:"timeout"`
		FanoutWorkers int           `yaml:"fanout_workers"`
		Sources       []string      `yaml:"sources"`
		SourceRPS     float64       `yaml:"source_rps"`
		SnapshotTTL   time.Duration `yaml:"snapshot_ttl"`
	} `yaml:"predictor"`
	FundAPI struct {
		URL         string        `yaml:"url"`
		Timeout     time.Duration `yaml:"timeout"`
		SeriesTTL   time.Duration `yaml:"series_ttl"`
		SearchTTL   time.Duration `yaml:"search_ttl"`
		ChartPoints int           `yaml:"chart_points"`
	} `yaml:"fundapi"`
	Exploration struct {
		PoolSize int `yaml:"pool_size"`
	} `yaml:"exploration"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Events struct {
		BufferSize int `yaml:"buffer_size"`
		MaxRPS     int `yaml:"max_rps"`
	} `yaml:"events"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("PREDICTOR_URL"); v != "" {
		c.Predictor.URL = v
	}
	if v := os.Getenv("PREDICTOR_SOURCES"); v != "" {
		c.Predictor.Sources = strings.Split(v, ",")
	}
	if v := os.Getenv("FUNDAPI_URL"); v != "" {
		c.FundAPI.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Redis.Port = p
			}
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Predictor.Timeout <= 0 {
		c.Predictor.Timeout = 10 * time.Second
	}
	if c.Predictor.FanoutWorkers <= 0 {
		c.Predictor.FanoutWorkers = 8
	}
	if c.Predictor.SourceRPS <= 0 {
		c.Predictor.SourceRPS = 2
	}
	if c.Predictor.SnapshotTTL <= 0 {
		c.Predictor.SnapshotTTL = 2 * time.Minute
	}
	if c.FundAPI.Timeout <= 0 {
		c.FundAPI.Timeout = 10 * time.Second
	}
	if c.FundAPI.SeriesTTL <= 0 {
		c.FundAPI.SeriesTTL = 15 * time.Minute
	}
	if c.FundAPI.SearchTTL <= 0 {
		c.FundAPI.SearchTTL = time.Hour
	}
	if c.FundAPI.ChartPoints <= 0 {
		c.FundAPI.ChartPoints = 30
	}
	if c.Exploration.PoolSize <= 0 {
		c.Exploration.PoolSize = 3
	}
	if c.Events.BufferSize <= 0 {
		c.Events.BufferSize = 256
	}
	if c.Events.MaxRPS <= 0 {
		c.Events.MaxRPS = 20
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "synapse"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Predictor.URL == "" {
		return fmt.Errorf("predictor.url is required")
	}
	if c.FundAPI.URL == "" {
		return fmt.Errorf("fundapi.url is required")
	}
	if c.Predictor.FanoutWorkers > 64 {
		return fmt.Errorf("predictor.fanout_workers must be <= 64, got %d", c.Predictor.FanoutWorkers)
	}
	return nil
}

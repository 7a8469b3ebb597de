package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultAPIURL            = "http://localhost:7070/api"
	DefaultRequestTimeout    = 15 * time.Second
	DefaultRequestsPerSecond = 5.0
)

// Environment variables that override the config file.
const (
	EnvAPIURL            = "PAYDESK_API_URL"
	EnvRequestTimeout    = "PAYDESK_REQUEST_TIMEOUT"
	EnvRequestsPerSecond = "PAYDESK_REQUESTS_PER_SECOND"
	EnvDBPath            = "PAYDESK_DB_PATH"
	EnvCredentialsPath   = "PAYDESK_CREDENTIALS_PATH"
)

// Config represents the paydesk client configuration
type Config struct {
	APIURL            string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	DBPath            string
	CredentialsPath   string
}

// fileConfig is the YAML layout of ~/.paydesk/config.yaml
type fileConfig struct {
	APIURL            string  `yaml:"api_url"`
	RequestTimeout    string  `yaml:"request_timeout"` // Go duration, e.g. "15s"
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	DBPath            string  `yaml:"db_path"`
	CredentialsPath   string  `yaml:"credentials_path"`
}

// Dir returns the paydesk home directory (~/.paydesk).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".paydesk"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the configuration.
// Resolution order: defaults, then the YAML file at path, then PAYDESK_* environment
// variables (including those set by envFile). Missing files are not an error.
// Empty path and envFile mean ~/.paydesk/config.yaml and ./.env.
func Load(path, envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables already set in the process environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:            DefaultAPIURL,
		RequestTimeout:    DefaultRequestTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		DBPath:            filepath.Join(dir, "paydesk.db"),
		CredentialsPath:   filepath.Join(dir, "credentials.yaml"),
	}

	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", fc.RequestTimeout, err)
		}
		c.RequestTimeout = d
	}
	if fc.RequestsPerSecond != 0 {
		c.RequestsPerSecond = fc.RequestsPerSecond
	}
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.CredentialsPath != "" {
		c.CredentialsPath = fc.CredentialsPath
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvRequestTimeout, v, err)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv(EnvRequestsPerSecond); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvRequestsPerSecond, v, err)
		}
		c.RequestsPerSecond = rps
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvCredentialsPath); v != "" {
		c.CredentialsPath = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an absolute http(s) URL", c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %v", c.RequestsPerSecond)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return nil
}

// Save writes cfg as YAML to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(fileConfig{
		APIURL:            cfg.APIURL,
		RequestTimeout:    cfg.RequestTimeout.String(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		DBPath:            cfg.DBPath,
		CredentialsPath:   cfg.CredentialsPath,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

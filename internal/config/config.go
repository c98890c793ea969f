package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	CMS      CMSConfig      `yaml:"cms"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port      string `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
	Debug     bool   `yaml:"debug"`
}

// APIConfig points at the recipe REST API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // Go duration; empty means no client-side timeout
}

// CMSConfig configures image URL building for the headless CMS.
type CMSConfig struct {
	ProjectID string `yaml:"project_id"`
	Dataset   string `yaml:"dataset"`
	CDNURL    string `yaml:"cdn_url"`
}

type SessionConfig struct {
	CookieName    string `yaml:"cookie_name"`
	DashboardPath string `yaml:"dashboard_path"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8080",
			StaticDir: "./static",
		},
		API: APIConfig{
			BaseURL: "http://localhost:3001/api",
			Timeout: "15s",
		},
		CMS: CMSConfig{
			CDNURL: "https://cdn.sanity.io",
		},
		Session: SessionConfig{
			CookieName:    "my_token",
			DashboardPath: "/dashboard",
		},
		Database: DatabaseConfig{
			Path: "recipebook.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML configuration file on top of the defaults and applies
// environment overrides.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RECIPEBOOK_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("RECIPEBOOK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SANITY_PROJECT_ID"); v != "" {
		c.CMS.ProjectID = v
	}
	if v := os.Getenv("SANITY_DATASET"); v != "" {
		c.CMS.Dataset = v
	}
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is not set in config file")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base_url is not set in config file")
	}
	if _, err := c.APITimeout(); err != nil {
		return err
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie_name is not set in config file")
	}
	if !strings.HasPrefix(c.Session.DashboardPath, "/") {
		return fmt.Errorf("session dashboard_path %q must start with /", c.Session.DashboardPath)
	}
	return nil
}

// APITimeout parses API.Timeout. Zero means the transport decides.
func (c *Config) APITimeout() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api timeout %q: %w", c.API.Timeout, err)
	}
	return d, nil
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() string {
	// First try environment variable
	if path := os.Getenv("RECIPEBOOK_CONFIG"); path != "" {
		return path
	}

	// Then try config directory
	configDir := "config"
	if _, err := os.Stat(configDir); err == nil {
		return filepath.Join(configDir, "config.yaml")
	}

	// Finally, try current directory
	return "config.yaml"
}

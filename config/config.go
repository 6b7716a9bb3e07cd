// Package config loads the YAML configuration of the sizefs binary.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/log"
	"github.com/mwantia/sizefs/size"
)

// Config represents the application configuration.
type Config struct {
	Log        LogConfig         `yaml:"log"`
	Seed       string            `yaml:"seed"`
	Units      string            `yaml:"units"`
	Sizes      []string          `yaml:"sizes"`
	MaxHandles int               `yaml:"max_handles"`
	Dirs       map[string]string `yaml:"directories"`
	Server     ServerConfig      `yaml:"server"`
	Export     ExportConfig      `yaml:"export"`
}

type LogConfig struct {
	Level      log.LogLevel `yaml:"level"`
	File       string       `yaml:"file"`
	NoTerminal bool         `yaml:"no_terminal"`
}

type ServerConfig struct {
	WebDAVAddr  string     `yaml:"webdav_addr"`
	MetricsAddr string     `yaml:"metrics_addr"`
	Auth        AuthConfig `yaml:"auth"`
}

type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ExportConfig struct {
	Concurrency int      `yaml:"concurrency"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: log.Info,
		},
		Seed:  "sizefs",
		Units: "jedec",
		Sizes: append([]string(nil), sizefs.DefaultListedSizes...),
		Server: ServerConfig{
			WebDAVAddr:  ":8080",
			MetricsAddr: ":9090",
		},
		Export: ExportConfig{
			Concurrency: 4,
			S3: S3Config{
				Region: "us-east-1",
				UseSSL: true,
			},
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.UnitTable(); err != nil {
		return err
	}
	if c.MaxHandles < 0 {
		return fmt.Errorf("max_handles cannot be negative")
	}
	if c.Export.Concurrency < 1 {
		return fmt.Errorf("export concurrency must be at least 1")
	}
	return nil
}

// UnitTable returns the unit table named by Units.
func (c *Config) UnitTable() (*size.Units, error) {
	switch c.Units {
	case "", "jedec":
		return size.JEDECUnits, nil
	case "default", "si":
		return size.DefaultUnits, nil
	default:
		return nil, fmt.Errorf("unknown unit table '%s'", c.Units)
	}
}

// Options converts the configuration into filesystem options.
// Pattern directories are registered in name order.
func (c *Config) Options() ([]sizefs.FileSystemOption, error) {
	units, err := c.UnitTable()
	if err != nil {
		return nil, err
	}

	opts := []sizefs.FileSystemOption{
		sizefs.WithLogLevel(c.Log.Level),
		sizefs.WithLogFile(c.Log.File),
		sizefs.WithSeed([]byte(c.Seed)),
		sizefs.WithUnits(units),
		sizefs.WithListedSizes(c.Sizes...),
		sizefs.WithMaxHandles(c.MaxHandles),
	}
	if c.Log.NoTerminal {
		opts = append(opts, sizefs.WithoutTerminalLog())
	}

	names := make([]string, 0, len(c.Dirs))
	for name := range c.Dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, sizefs.WithPatternDirectory(name, c.Dirs[name]))
	}

	return opts, nil
}

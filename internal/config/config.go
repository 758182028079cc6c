package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"

	"go.pagestore/internal/logger"
	"go.pagestore/internal/storage"
)

const (
	DefaultAddr       = "127.0.0.1:57083"
	DefaultCachePages = 256
)

type Config struct {
	Addr     string `yaml:"addr"`
	Home     string `yaml:"home"`
	DataDir  string `yaml:"data_dir"`
	LogDir   string `yaml:"log_dir"`
	UserFile string `yaml:"user_file"`
	LogLevel string `yaml:"log_level"`
	TLSCert  string `yaml:"tls_cert"`
	TLSKey   string `yaml:"tls_key"`

	PageSize       int     `yaml:"page_size"`
	MinFillPercent float64 `yaml:"min_fill_percent"`
	MaxFillPercent float64 `yaml:"max_fill_percent"`
	CachePages     int     `yaml:"cache_pages"`
}

// Default returns the configuration used when no config file overrides it. The page size is
// the OS page size, looked up here once and handed to storage as a plain value.
func Default(p *Paths) *Config {
	return &Config{
		Addr:           DefaultAddr,
		Home:           p.Home,
		DataDir:        p.DataDir,
		LogDir:         p.LogDir,
		UserFile:       p.UserFile,
		LogLevel:       logger.INFO.String(),
		PageSize:       os.Getpagesize(),
		MinFillPercent: storage.DefaultMinFillPercent,
		MaxFillPercent: storage.DefaultMaxFillPercent,
		CachePages:     DefaultCachePages,
	}
}

// LoadConfig resolves the app paths, reads the YAML config file over the defaults when it
// exists, and creates the data and log directories.
func LoadConfig(homeOverride, configOverride string) (*Config, error) {
	p, err := ResolvePaths(homeOverride, configOverride)
	if err != nil {
		return nil, err
	}

	cfg := Default(p)

	f, err := os.Open(p.Config)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if configOverride != "" {
			return nil, fmt.Errorf("config file %s: %w", p.Config, err)
		}
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", p.Config, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", p.Config, err)
	}

	for _, dir := range []string{cfg.DataDir, cfg.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return cfg, nil
}

var dbNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateDBName keeps database names usable as a directory and file name.
func ValidateDBName(name string) error {
	if !dbNamePattern.MatchString(name) {
		return fmt.Errorf("invalid database name %q: use letters, digits, '-' and '_'", name)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Addr == "" {
		return errors.New("addr must be set")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("tls_cert and tls_key must be set together")
	}
	if c.DataDir == "" || c.LogDir == "" || c.UserFile == "" {
		return errors.New("data_dir, log_dir and user_file must be set")
	}
	return c.StorageOptions().Validate()
}

func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// StorageOptions hands the storage settings to the core as plain values.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		PageSize:       c.PageSize,
		MinFillPercent: c.MinFillPercent,
		MaxFillPercent: c.MaxFillPercent,
		CachePages:     c.CachePages,
	}
}

// Level is the parsed log_level; Validate has already rejected unknown names.
func (c *Config) Level() logger.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}

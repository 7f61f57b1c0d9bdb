// Package config loads jotter's settings from a YAML file, with JOTTER_*
// environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jotter/jotter/pkg/constants"
	"github.com/jotter/jotter/pkg/logger"
	"github.com/jotter/jotter/pkg/readtime"
	"github.com/jotter/jotter/pkg/toast"
)

// Config is the complete configuration of the CLI and the development
// backend.
type Config struct {
	Endpoint       string        `yaml:"endpoint"`
	WordsPerMinute int           `yaml:"words_per_minute"`
	ToastDuration  time.Duration `yaml:"toast_duration"`
	Timeout        time.Duration `yaml:"timeout"`
	LogLevel       string        `yaml:"log_level"`
	// LogFormat is "zerolog" or "slog".
	LogFormat   string       `yaml:"log_format"`
	LogFile     string       `yaml:"log_file,omitempty"`
	SessionFile string       `yaml:"session_file"`
	Server      ServerConfig `yaml:"server"`
}

// ServerConfig configures `jotter serve`.
type ServerConfig struct {
	Listen string `yaml:"listen"`
	// Database is a SQLite path. ":memory:" keeps everything in memory.
	Database  string        `yaml:"database"`
	JWTSecret string        `yaml:"jwt_secret,omitempty"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Dir is the directory holding jotter's config, session and database
// files: $XDG_CONFIG_HOME/jotter on Linux.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "jotter")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func Default() *Config {
	dir := Dir()
	return &Config{
		Endpoint:       "ws://127.0.0.1:8000",
		WordsPerMinute: readtime.DefaultWordsPerMinute,
		ToastDuration:  toast.DefaultDuration,
		Timeout:        constants.DefaultWSTimeout,
		LogLevel:       "warn",
		LogFormat:      logger.FormatZerolog,
		SessionFile:    filepath.Join(dir, "session.yaml"),
		Server: ServerConfig{
			Listen:   "127.0.0.1:8000",
			Database: filepath.Join(dir, "jotter.db"),
			TokenTTL: 7 * 24 * time.Hour,
		},
	}
}

// Load reads path over the defaults and applies the environment. An empty
// path means DefaultPath, which may be missing.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"JOTTER_ENDPOINT":     &c.Endpoint,
		"JOTTER_LOG_LEVEL":    &c.LogLevel,
		"JOTTER_LOG_FORMAT":   &c.LogFormat,
		"JOTTER_LOG_FILE":     &c.LogFile,
		"JOTTER_SESSION_FILE": &c.SessionFile,
		"JOTTER_LISTEN":       &c.Server.Listen,
		"JOTTER_DB":           &c.Server.Database,
		"JOTTER_JWT_SECRET":   &c.Server.JWTSecret,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	dur := map[string]*time.Duration{
		"JOTTER_TOAST_DURATION": &c.ToastDuration,
		"JOTTER_TIMEOUT":        &c.Timeout,
		"JOTTER_TOKEN_TTL":      &c.Server.TokenTTL,
	}
	for key, dst := range dur {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := os.LookupEnv("JOTTER_WPM"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOTTER_WPM: %w", err)
		}
		c.WordsPerMinute = n
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	switch u.Scheme {
	case constants.WebsocketScheme, constants.WebsocketSecureScheme, constants.HTTPScheme, constants.HTTPSecureScheme:
	default:
		return fmt.Errorf("endpoint: unsupported scheme %q", u.Scheme)
	}
	switch c.LogFormat {
	case logger.FormatZerolog, logger.FormatSlog:
	default:
		return fmt.Errorf("log_format must be %q or %q", logger.FormatZerolog, logger.FormatSlog)
	}
	if c.WordsPerMinute <= 0 {
		return fmt.Errorf("words_per_minute must be positive")
	}
	if c.ToastDuration <= 0 {
		return fmt.Errorf("toast_duration must be positive")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.Server.TokenTTL <= 0 {
		return fmt.Errorf("server.token_ttl must be positive")
	}
	return nil
}

// Save writes c to path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

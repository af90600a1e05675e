package store

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIBaseURL     = "http://localhost:8787"
	DefaultAuthBasePath   = "/api/auth"
	DefaultSessionDelay   = 500 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second

	configFileName = "config.toml"
)

// Config is the user configuration stored in <config dir>/config.toml.
// Zero values mean "use the default"; flags and env vars override it at runtime.
type Config struct {
	APIBaseURL   string `toml:"api_base_url,omitempty" json:"apiBaseUrl,omitempty" yaml:"api_base_url,omitempty"`
	AuthBasePath string `toml:"auth_base_path,omitempty" json:"authBasePath,omitempty" yaml:"auth_base_path,omitempty"`
	Lang         string `toml:"lang,omitempty" json:"lang,omitempty" yaml:"lang,omitempty"`
	Format       string `toml:"format,omitempty" json:"format,omitempty" yaml:"format,omitempty"`

	DebugLog string `toml:"debug_log,omitempty" json:"debugLog,omitempty" yaml:"debug_log,omitempty"`
	LogLevel string `toml:"log_level,omitempty" json:"logLevel,omitempty" yaml:"log_level,omitempty"`

	// Durations are Go duration strings ("500ms", "10s").
	RequestTimeout string `toml:"request_timeout,omitempty" json:"requestTimeout,omitempty" yaml:"request_timeout,omitempty"`
	SessionDelay   string `toml:"session_delay,omitempty" json:"sessionDelay,omitempty" yaml:"session_delay,omitempty"`
}

// ConfigKeys lists the keys accepted by Config.Set, in display order.
var ConfigKeys = []string{
	"api_base_url",
	"auth_base_path",
	"lang",
	"format",
	"debug_log",
	"log_level",
	"request_timeout",
	"session_delay",
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.todo-cli).
	if v := strings.TrimSpace(os.Getenv("TODO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todo-cli"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(dir)
}

// LoadConfigFrom reads dir/config.toml. A missing file is an empty config.
func LoadConfigFrom(dir string) (*Config, error) {
	path := filepath.Join(dir, configFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if _, err := toml.Decode(string(b), &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(dir, cfg)
}

func SaveConfigTo(dir string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	// The CLI and a running TUI may both write; rename keeps readers from seeing a partial file.
	return atomicWriteFile(dir, "config.toml.*.tmp", filepath.Join(dir, configFileName), buf.Bytes(), 0o600)
}

// Set validates and assigns a single key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "api_base_url":
		if value != "" {
			u, err := url.Parse(value)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("invalid api_base_url %q (expected e.g. http://localhost:8787)", value)
			}
		}
		c.APIBaseURL = strings.TrimRight(value, "/")
	case "auth_base_path":
		if value != "" && !strings.HasPrefix(value, "/") {
			value = "/" + value
		}
		c.AuthBasePath = strings.TrimRight(value, "/")
	case "lang":
		c.Lang = value
	case "format":
		switch value {
		case "", "json", "yaml", "text":
		default:
			return fmt.Errorf("invalid format %q (expected json|yaml|text)", value)
		}
		c.Format = value
	case "debug_log":
		c.DebugLog = value
	case "log_level":
		switch strings.ToLower(value) {
		case "", "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("invalid log_level %q", value)
		}
		c.LogLevel = value
	case "request_timeout":
		if _, err := parseDurationOr(value, 0); err != nil {
			return err
		}
		c.RequestTimeout = value
	case "session_delay":
		if _, err := parseDurationOr(value, 0); err != nil {
			return err
		}
		c.SessionDelay = value
	default:
		keys := append([]string(nil), ConfigKeys...)
		sort.Strings(keys)
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) BaseURL() string {
	if c == nil || strings.TrimSpace(c.APIBaseURL) == "" {
		return DefaultAPIBaseURL
	}
	return strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
}

func (c *Config) AuthPath() string {
	if c == nil || strings.TrimSpace(c.AuthBasePath) == "" {
		return DefaultAuthBasePath
	}
	return c.AuthBasePath
}

func (c *Config) Timeout() time.Duration {
	if c == nil {
		return DefaultRequestTimeout
	}
	d, err := parseDurationOr(c.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return DefaultRequestTimeout
	}
	return d
}

func (c *Config) LoginDelay() time.Duration {
	if c == nil {
		return DefaultSessionDelay
	}
	d, err := parseDurationOr(c.SessionDelay, DefaultSessionDelay)
	if err != nil {
		return DefaultSessionDelay
	}
	return d
}

func parseDurationOr(s string, d time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return d, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	return v, nil
}

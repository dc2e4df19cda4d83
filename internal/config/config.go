package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the settings Vapor reads at startup.
type Config struct {
	APIURL         string        `koanf:"api_url" validate:"required,url"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	WakeTimeout    time.Duration `koanf:"wake_timeout" validate:"gte=0"`
	SearchDebounce time.Duration `koanf:"search_debounce" validate:"gte=0"`
	HomeRefresh    time.Duration `koanf:"home_refresh" validate:"gt=0"`
	LogFile        string        `koanf:"log_file" validate:"required"`
	LogLevel       string        `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	SessionFile    string        `koanf:"session_file" validate:"required"`
	PrefsFile      string        `koanf:"prefs_file" validate:"required"`

	// Path is the config file that was read, empty when defaults were used.
	Path string `koanf:"-"`
}

const (
	envPrefix         = "VAPOR_"
	defaultConfigPath = "~/.config/vapor/config.toml"
	defaultAPIURL     = "http://localhost:3000/api"
	defaultLogFile    = "~/.local/share/vapor/vapor.log"
	defaultSession    = "~/.config/vapor/session.toml"
	defaultPrefs      = "~/.config/vapor/prefs.toml"
)

// dotenvFile is read from the working directory when present.
var dotenvFile = ".env"

func defaults() map[string]any {
	return map[string]any{
		"api_url":         defaultAPIURL,
		"request_timeout": "60s",
		"wake_timeout":    "90s",
		"search_debounce": "500ms",
		"home_refresh":    "5m",
		"log_file":        defaultLogFile,
		"log_level":       "info",
		"session_file":    defaultSession,
		"prefs_file":      defaultPrefs,
	}
}

// Load layers defaults, the TOML file at path (or the default location), a .env
// file and VAPOR_* environment variables, in that order. A missing config file
// is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	used := ""
	if _, err := os.Stat(resolved); err == nil {
		if err := k.Load(file.Provider(resolved), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		used = resolved
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenvFile, err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Path = used
	cfg.normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation error: %w", err)
	}
	return cfg, nil
}

func envKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, envPrefix))
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFile = pathOr(c.LogFile, defaultLogFile)
	c.SessionFile = pathOr(c.SessionFile, defaultSession)
	c.PrefsFile = pathOr(c.PrefsFile, defaultPrefs)
}

// LogDir returns the directory holding the client log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
}

func pathOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	return mustExpand(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

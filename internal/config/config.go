// internal/config/config.go
//
// Runtime configuration.
// Sources, lowest to highest precedence:
//   1. DefaultConfig
//   2. optional YAML file (onebit.yaml, or $ONEBIT_CONFIG)
//   3. environment variables (a .env file is loaded into the environment by main)
//   4. CLI flags, applied by the commands themselves
//
// Environment variables:
//   DB_PATH, EPHEMERAL, PUZZLES_FILE, WORDS_FILE, DAILY_SALT, PORT,
//   JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, COOKIE_SECURE, CLIENT_ORIGIN,
//   LOG_LEVEL, LOG_FILE

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when ONEBIT_CONFIG is unset.
const DefaultFile = "onebit.yaml"

// Config holds every setting of the CLI and the HTTP host.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// GameConfig tunes session construction and puzzle data.
type GameConfig struct {
	Limit       int    `yaml:"limit"`        // 0 = every puzzle
	Dividers    bool   `yaml:"dividers"`     // "puzzle i of k" between puzzles
	PuzzlesFile string `yaml:"puzzles_file"` // "" = embedded set
	WordsFile   string `yaml:"words_file"`   // "" = embedded vocabulary
	DailySalt   string `yaml:"daily_salt"`
}

// StorageConfig selects the progress backend.
type StorageConfig struct {
	DBPath    string `yaml:"db_path"`
	Ephemeral bool   `yaml:"ephemeral"` // in-memory only; nothing survives the process
}

// ServerConfig configures `onebit serve`.
type ServerConfig struct {
	Port          string `yaml:"port"`
	JWTSecret     string `yaml:"jwt_secret"`
	TokenDays     int    `yaml:"token_days"`
	CookieName    string `yaml:"cookie_name"`
	SecureCookies bool   `yaml:"secure_cookies"`
	ClientOrigin  string `yaml:"client_origin"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // used by the terminal chat, which owns stdout
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Game: GameConfig{
			DailySalt: "local_dev_salt",
		},
		Storage: StorageConfig{
			DBPath: filepath.Join("data", "onebit.db"),
		},
		Server: ServerConfig{
			Port:         "5175",
			JWTSecret:    "dev_secret_change_me",
			TokenDays:    180,
			CookieName:   "onebit_token",
			ClientOrigin: "http://localhost:5173",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Path returns $ONEBIT_CONFIG or DefaultFile.
func Path() string {
	return getEnv("ONEBIT_CONFIG", DefaultFile)
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	c.Storage.DBPath = getEnv("DB_PATH", c.Storage.DBPath)
	c.Storage.Ephemeral = envBool("EPHEMERAL", c.Storage.Ephemeral)
	c.Game.PuzzlesFile = getEnv("PUZZLES_FILE", c.Game.PuzzlesFile)
	c.Game.WordsFile = getEnv("WORDS_FILE", c.Game.WordsFile)
	c.Game.DailySalt = getEnv("DAILY_SALT", c.Game.DailySalt)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.JWTSecret = getEnv("JWT_SECRET", c.Server.JWTSecret)
	c.Server.TokenDays = envInt("JWT_EXPIRES_DAYS", c.Server.TokenDays)
	c.Server.CookieName = getEnv("COOKIE_NAME", c.Server.CookieName)
	c.Server.SecureCookies = envBool("COOKIE_SECURE", c.Server.SecureCookies)
	c.Server.ClientOrigin = getEnv("CLIENT_ORIGIN", c.Server.ClientOrigin)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.Game.Limit < 0 {
		return fmt.Errorf("game.limit must not be negative, got %d", c.Game.Limit)
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	if c.Server.TokenDays <= 0 {
		return fmt.Errorf("token_days must be positive, got %d", c.Server.TokenDays)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// TokenTTL is the lifetime of a player session token.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Server.TokenDays) * 24 * time.Hour
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix scopes environment overrides, nested with "__".
// e.g. WARTEG_HTTP__ADDR, WARTEG_GEMINI__API_KEY
const envPrefix = "WARTEG_"

// geminiKeyEnv is the conventional Gemini key variable, read when
// WARTEG_GEMINI__API_KEY is unset.
const geminiKeyEnv = "GEMINI_API_KEY"

type Config struct {
	HTTP struct {
		Addr           string   `koanf:"addr"`
		AllowedOrigins []string `koanf:"allowed_origins"`
	} `koanf:"http"`

	Auth struct {
		JWTSecret string        `koanf:"jwt_secret"`
		TokenTTL  time.Duration `koanf:"token_ttl"`
	} `koanf:"auth"`

	Session struct {
		// RedisAddr selects the Redis-backed session slot; empty keeps sessions in memory.
		RedisAddr string        `koanf:"redis_addr"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"session"`

	Gemini struct {
		APIKey string `koanf:"api_key"`
		Model  string `koanf:"model"`
	} `koanf:"gemini"`

	Log struct {
		Level string `koanf:"level"`
		File  string `koanf:"file"`
	} `koanf:"log"`
}

func defaults() Config {
	var c Config
	c.HTTP.Addr = ":8081"
	c.HTTP.AllowedOrigins = []string{"http://localhost:5173"}
	c.Auth.JWTSecret = "dev-secret-change-in-production"
	c.Auth.TokenTTL = 24 * time.Hour
	c.Session.TTL = 7 * 24 * time.Hour
	c.Gemini.Model = "gemini-3-flash-preview"
	c.Log.Level = "info"
	c.Log.File = "./logs/warteg.log"
	return c
}

// Load builds the config from defaults, then the optional YAML file at path,
// then WARTEG_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv(geminiKeyEnv)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

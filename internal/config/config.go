// Package config loads cardfan's application settings.
//
// Settings come from defaults, an optional TOML file
// (~/.config/cardfan/config.toml or $CARDFAN_CONFIG) and CARDFAN_*
// environment variables, in increasing priority. Nested keys map to
// underscores: cache.dir is CARDFAN_CACHE_DIR.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "cardfan"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds application settings.
type Config struct {
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Server ServerConfig `mapstructure:"server"`
	Render RenderConfig `mapstructure:"render"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// ServerConfig configures `cardfan serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// RenderConfig holds render defaults for the CLI and server.
type RenderConfig struct {
	Formats    []string `mapstructure:"formats"`
	Style      string   `mapstructure:"style"`
	Scale      float64  `mapstructure:"scale"`
	Labels     bool     `mapstructure:"labels"`
	Background string   `mapstructure:"background"`
}

// Load reads the settings.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path := os.Getenv("CARDFAN_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CARDFAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks the settings that have a fixed set of values.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("cache.backend is redis but redis.addr is empty")
	}
	return nil
}

// Save writes c as TOML to the config file, creating its directory.
func Save(c Config) error {
	path := os.Getenv("CARDFAN_CONFIG")
	if path == "" {
		path = filepath.Join(ConfigDir(), "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("cache.backend", c.Cache.Backend)
	v.Set("cache.dir", c.Cache.Dir)
	v.Set("redis.addr", c.Redis.Addr)
	v.Set("redis.db", c.Redis.DB)
	v.Set("redis.prefix", c.Redis.Prefix)
	v.Set("server.addr", c.Server.Addr)
	v.Set("render.formats", c.Render.Formats)
	v.Set("render.style", c.Render.Style)
	v.Set("render.scale", c.Render.Scale)
	v.Set("render.labels", c.Render.Labels)
	v.Set("render.background", c.Render.Background)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.dir", CacheDir())
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", appName+":")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("render.formats", []string{"svg"})
	v.SetDefault("render.style", "simple")
	v.SetDefault("render.scale", 1.0)
	v.SetDefault("render.labels", false)
	v.SetDefault("render.background", "#1c1c1e")
}

// CacheDir is $XDG_CACHE_HOME/cardfan, or ~/.cache/cardfan.
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// ConfigDir is $XDG_CONFIG_HOME/cardfan, or ~/.config/cardfan.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".config", appName)
}

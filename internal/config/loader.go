// Package config provides centralized configuration management for biolens.
// Configuration is resolved in three layers: built-in defaults, an optional
// YAML config file, and BIOLENS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// Load resolves the effective configuration. cfgFile may be empty, in which
// case the default search paths are used. Safe to call multiple times.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "biolens"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BIOLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; a malformed one is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	decoderOpt := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decoderOpt); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	configMu.Lock()
	appConfig = cfg
	configMu.Unlock()

	return cfg, nil
}

// Get returns the loaded configuration, or defaults when Load was never called.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	if appConfig == nil {
		return Default()
	}
	return appConfig
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("upstream.base_url", d.Upstream.BaseURL)
	v.SetDefault("upstream.user_agent", d.Upstream.UserAgent)
	v.SetDefault("upstream.timeout", d.Upstream.Timeout)
	v.SetDefault("upstream.rate_limit", d.Upstream.RateLimit)
	v.SetDefault("upstream.rate_window", d.Upstream.RateWindow)
	v.SetDefault("upstream.max_retries", d.Upstream.MaxRetries)
	v.SetDefault("logging.level", d.Logging.Level)
}

func validate(cfg *Config) error {
	if cfg.Upstream.RateLimit <= 0 {
		return fmt.Errorf("upstream.rate_limit must be positive, got %d", cfg.Upstream.RateLimit)
	}
	if cfg.Upstream.RateWindow <= 0 {
		return fmt.Errorf("upstream.rate_window must be positive, got %s", cfg.Upstream.RateWindow)
	}
	if cfg.Upstream.MaxRetries < 0 {
		return fmt.Errorf("upstream.max_retries must not be negative, got %d", cfg.Upstream.MaxRetries)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if strings.TrimSpace(cfg.Upstream.BaseURL) == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	return nil
}

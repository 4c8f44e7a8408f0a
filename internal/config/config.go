package config

import "time"

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream" yaml:"upstream"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// UpstreamConfig contains iNaturalist API client configuration.
type UpstreamConfig struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// UserAgent identifies this client to the upstream API.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// Timeout bounds a single HTTP request attempt.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// RateLimit is the request ceiling per RateWindow, shared by all tools.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`

	// RateWindow is the rolling window the ceiling applies to.
	RateWindow time.Duration `mapstructure:"rate_window" yaml:"rate_window"`

	// MaxRetries is the number of additional attempts after a transient failure.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8710,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL:    "https://api.inaturalist.org/v1",
			UserAgent:  "biolens/" + toolVersion,
			Timeout:    30 * time.Second,
			RateLimit:  60,
			RateWindow: time.Minute,
			MaxRetries: 2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// toolVersion is stamped into the default User-Agent. Kept here so the
// config package has no import cycle with cmd.
const toolVersion = "0.1.0"

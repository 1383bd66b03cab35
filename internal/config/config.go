package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/mizutori/nosread/pkg/domain"
)

// Config holds all configuration for the nosread service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"NOSREAD_HTTP_PORT" envDefault:"8080"`
	GRPCPort int    `env:"NOSREAD_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Relay configuration
	Relay RelayConfig

	// Adapter backends
	FeedBackend   string `env:"FEED_BACKEND" envDefault:"memory"`
	EventsBackend string `env:"EVENTS_BACKEND" envDefault:"memory"`

	// Redis configuration (used when a backend is "redis")
	Redis RedisConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// RelayConfig holds the relay address and the default subscription
// filter issued once the connection opens
type RelayConfig struct {
	URL      string `env:"RELAY_URL"`
	Kind     int    `env:"RELAY_KIND" envDefault:"30023"`
	Limit    int    `env:"RELAY_LIMIT" envDefault:"20"`
	TagName  string `env:"RELAY_TAG_NAME"`
	TagValue string `env:"RELAY_TAG_VALUE"`

	// AutoSubscribe issues the default filter as soon as the
	// session opens
	AutoSubscribe bool `env:"RELAY_AUTO_SUBSCRIBE" envDefault:"true"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`

	// FeedTTL bounds how long a session's feed key may linger
	FeedTTL time.Duration `env:"REDIS_FEED_TTL" envDefault:"1h"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}

	// Validate relay config
	if c.Relay.URL == "" {
		return fmt.Errorf("relay URL is required")
	}
	if c.Relay.Kind < 0 {
		return fmt.Errorf("invalid relay kind: %d (must be non-negative)", c.Relay.Kind)
	}
	if c.Relay.Limit < 1 {
		return fmt.Errorf("invalid relay limit: %d (must be at least 1)", c.Relay.Limit)
	}
	if c.Relay.TagName != "" && c.Relay.TagValue == "" {
		return fmt.Errorf("relay tag %q requires a value", c.Relay.TagName)
	}

	// Validate adapter backends
	if c.FeedBackend != "memory" && c.FeedBackend != "redis" {
		return fmt.Errorf("invalid feed backend: %s (must be memory or redis)", c.FeedBackend)
	}
	if c.EventsBackend != "memory" && c.EventsBackend != "redis" {
		return fmt.Errorf("invalid events backend: %s (must be memory or redis)", c.EventsBackend)
	}
	if c.NeedsRedis() && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// NeedsRedis reports whether any configured backend uses Redis
func (c *Config) NeedsRedis() bool {
	return c.FeedBackend == "redis" || c.EventsBackend == "redis"
}

// DefaultFilter builds the subscription filter described by the
// relay configuration
func (c *Config) DefaultFilter() domain.Filter {
	f := domain.Filter{
		Kinds: []int{c.Relay.Kind},
		Limit: c.Relay.Limit,
	}
	if c.Relay.TagName != "" {
		f.TagFilters = map[string]string{c.Relay.TagName: c.Relay.TagValue}
	}
	return f
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

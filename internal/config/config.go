package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	Host         string   `mapstructure:"host"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	ReadTimeout  int      `mapstructure:"read_timeout"`
	WriteTimeout int      `mapstructure:"write_timeout"`
}

// UpstreamConfig holds the outbound game-API client configuration
type UpstreamConfig struct {
	APIBaseURL           string   `mapstructure:"api_base_url"`
	GamesBaseURL         string   `mapstructure:"games_base_url"`
	ThumbnailsBaseURL    string   `mapstructure:"thumbnails_base_url"`
	AllowedHosts         []string `mapstructure:"allowed_hosts"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// RateLimitConfig holds the client-facing sliding-window limiter settings.
// Backend "memory" keeps counts per process; "redis" shares them across
// instances.
type RateLimitConfig struct {
	Backend       string `mapstructure:"backend"`
	MaxRequests   int    `mapstructure:"max_requests"`
	WindowSeconds int    `mapstructure:"window_seconds"`
}

// AdminConfig holds the admin gate configuration
type AdminConfig struct {
	Username      string   `mapstructure:"username"`
	PasswordHash  string   `mapstructure:"password_hash"`
	SessionSecret string   `mapstructure:"session_secret"`
	AllowedIPs    []string `mapstructure:"allowed_ips"`
	SessionTTL    int      `mapstructure:"session_ttl"`
}

func (c UpstreamConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

func (c AdminConfig) SessionLifetime() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Secrets can arrive entirely through the environment, so a
		// missing config.yaml is not fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.cors_origins", []string{})
	viper.SetDefault("server.read_timeout", 15)
	viper.SetDefault("server.write_timeout", 30)

	viper.SetDefault("upstream.api_base_url", "https://apis.roblox.com")
	viper.SetDefault("upstream.games_base_url", "https://games.roblox.com")
	viper.SetDefault("upstream.thumbnails_base_url", "https://thumbnails.roblox.com")
	viper.SetDefault("upstream.allowed_hosts", []string{
		"apis.roblox.com",
		"games.roblox.com",
		"thumbnails.roblox.com",
	})
	viper.SetDefault("upstream.timeout", 8)
	viper.SetDefault("upstream.max_requests_per_second", 10)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "portfolio")
	viper.SetDefault("database.user", "portfolio_user")
	viper.SetDefault("database.password", "portfolio_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)

	viper.SetDefault("ratelimit.backend", "memory")
	viper.SetDefault("ratelimit.max_requests", 30)
	viper.SetDefault("ratelimit.window_seconds", 60)

	viper.SetDefault("admin.username", "")
	viper.SetDefault("admin.password_hash", "")
	viper.SetDefault("admin.session_secret", "")
	viper.SetDefault("admin.allowed_ips", []string{})
	viper.SetDefault("admin.session_ttl", 3600)
}

package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Defaults DefaultsConfig `mapstructure:"defaults" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// ShutdownTimeout returns the graceful shutdown window.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
// For sqlite the URL is a file path or a "file:" URI.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL          string `mapstructure:"url" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// AuthConfig contains the settings used to validate identity-provider tokens.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer               string `mapstructure:"issuer"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gte=1"`
}

// TokenLifetime returns the lifetime of locally minted tokens.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// CacheConfig bounds the per-user workspace cache.
type CacheConfig struct {
	MaxUsers   int `mapstructure:"max_users" validate:"gte=1"`
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"gte=1"`
}

// TTL returns how long an idle workspace stays cached.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// DefaultsConfig holds the settings applied to users who never saved their own.
type DefaultsConfig struct {
	MinDaysAhead int    `mapstructure:"min_days_ahead" validate:"gte=1,lte=30"`
	MaxDaysAhead int    `mapstructure:"max_days_ahead" validate:"gte=1,lte=30,gtefield=MinDaysAhead"`
	EarliestHour int    `mapstructure:"earliest_hour" validate:"gte=0,lte=23"`
	LatestHour   int    `mapstructure:"latest_hour" validate:"gte=0,lte=23,gtefield=EarliestHour"`
	Timezone     string `mapstructure:"timezone" validate:"required,timezone"`
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. POSTPONE_DATABASE_URL.
const EnvPrefix = "POSTPONE"

// Load reads configuration from defaults, an optional config file and
// environment variables, in increasing order of precedence.
//
// When path is empty, config.yaml in the working directory is used if present.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.url", "postpone.db")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("cache.max_users", 1000)
	v.SetDefault("cache.ttl_seconds", 300)

	v.SetDefault("defaults.min_days_ahead", 1)
	v.SetDefault("defaults.max_days_ahead", 4)
	v.SetDefault("defaults.earliest_hour", 8)
	v.SetDefault("defaults.latest_hour", 23)
	v.SetDefault("defaults.timezone", "UTC")
}

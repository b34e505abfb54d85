package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CATALOG_SERVER_PORT.
const EnvPrefix = "CATALOG"

// DefaultMaxUploadBytes is the per-image upload limit (5 MiB).
const DefaultMaxUploadBytes = 5 * 1024 * 1024

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Media.Driver == "s3" && cfg.Media.S3.Bucket == "" {
		return nil, fmt.Errorf("config validation failed: media.s3.bucket is required for the s3 driver")
	}

	if cfg.Auth.RevocationBackend == "redis" && cfg.Redis.URL == "" {
		return nil, fmt.Errorf("config validation failed: redis.url is required for the redis revocation backend")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.expose_errors", false)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.revocation_backend", "postgres")

	v.SetDefault("media.driver", "local")
	v.SetDefault("media.local_dir", "./storage")
	v.SetDefault("media.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("media.s3.region", "us-east-1")

	v.SetDefault("seed.admin_name", "Admin User")
	v.SetDefault("seed.admin_email", "admin@demo.com")
	v.SetDefault("seed.admin_password", "Admin@123")
	v.SetDefault("seed.products", 50)
}

// bindEnvs registers keys without defaults so AutomaticEnv can populate them
// during Unmarshal.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"media.s3.bucket",
		"media.s3.region",
		"media.s3.endpoint",
		"media.s3.public_url",
		"media.s3.access_key_id",
		"media.s3.secret_access_key",
		"redis.url",
	} {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key)
	}
}

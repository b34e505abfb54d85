package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Media    MediaConfig    `mapstructure:"media"    validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// PublicURL is the externally reachable base URL, used to build media URLs.
	PublicURL string `mapstructure:"public_url" validate:"required,url"`
	// ExposeErrors includes a redacted error string in 500 responses.
	ExposeErrors bool `mapstructure:"expose_errors"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=1"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=43200"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
	// RevocationBackend selects where logged-out token ids are kept.
	RevocationBackend string `mapstructure:"revocation_backend" validate:"required,oneof=postgres redis"`
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// MediaConfig selects and configures the storage backend for product images.
type MediaConfig struct {
	Driver         string   `mapstructure:"driver"           validate:"required,oneof=local s3"`
	LocalDir       string   `mapstructure:"local_dir"        validate:"required_if=Driver local"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes" validate:"required,gt=0"`
	S3             S3Config `mapstructure:"s3"`
}

// S3Config contains settings for the S3 media backend.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"   validate:"omitempty,url"`
	PublicURL string `mapstructure:"public_url" validate:"omitempty,url"`
	// Static credentials; when empty the default AWS credential chain is used.
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// SeedConfig controls the demo data inserted by the -seed flag.
type SeedConfig struct {
	AdminName     string `mapstructure:"admin_name"`
	AdminEmail    string `mapstructure:"admin_email"    validate:"omitempty,email"`
	AdminPassword string `mapstructure:"admin_password" validate:"omitempty,min=6"`
	Products      int    `mapstructure:"products"       validate:"gte=0"`
}

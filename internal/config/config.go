package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSecret marks a fatal configuration error for token secrets.
var ErrMissingSecret = errors.New("missing token secret")

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Feed      FeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Format is "json" (default) or "console".
	Format string
}

// AuthConfig holds the token signing secrets and password hashing cost.
type AuthConfig struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	BcryptCost         int
}

// StorageConfig holds Cloudinary credentials for image uploads.
type StorageConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	Folder       string
	MaxImageSize int64
	MaxImages    int
}

// Enabled reports whether uploads can be performed.
func (s StorageConfig) Enabled() bool {
	return s.CloudName != "" && s.APIKey != "" && s.APISecret != ""
}

// RateLimitConfig configures the Redis sliding window limiter.
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
	AuthRequests  int
}

// Window returns the limiter window.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// FeedConfig configures the home feed cache.
type FeedConfig struct {
	CacheTTLSeconds int
}

// CacheTTL returns the cache lifetime of the home feed.
func (f FeedConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLSeconds) * time.Second
}

// Load reads configuration from environment variables, applying defaults where possible.
// Token secrets have no defaults; their absence is a fatal error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "starbite-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSOrigins:           getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            firstNonEmpty(os.Getenv("POSTGRES_DSN"), os.Getenv("DB_URL")),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET_KEY"),
			RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET_KEY"),
			BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Storage: StorageConfig{
			CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:       os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:       getEnv("CLOUDINARY_FOLDER", "restaurant-review-app"),
			MaxImageSize: int64(getEnvAsInt("UPLOAD_MAX_IMAGE_BYTES", 5_000_000)),
			MaxImages:    getEnvAsInt("UPLOAD_MAX_IMAGES", 5),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			AuthRequests:  getEnvAsInt("RATE_LIMIT_AUTH_REQUESTS", 20),
		},
		Feed: FeedConfig{
			CacheTTLSeconds: getEnvAsInt("FEED_CACHE_TTL_SECONDS", 60),
		},
	}

	if err := cfg.Auth.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a AuthConfig) validate() error {
	var missing []string
	if strings.TrimSpace(a.AccessTokenSecret) == "" {
		missing = append(missing, "ACCESS_TOKEN_SECRET_KEY")
	}
	if strings.TrimSpace(a.RefreshTokenSecret) == "" {
		missing = append(missing, "REFRESH_TOKEN_SECRET_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
	}
	if a.AccessTokenSecret == a.RefreshTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET_KEY and REFRESH_TOKEN_SECRET_KEY must differ")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

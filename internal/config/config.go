package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PIN store backends.
const (
	PINStoreMemory = "memory"
	PINStoreRedis  = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	PIN       PINConfig
	Analytics AnalyticsConfig
	RateLimit RateLimitConfig

	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
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
	ConnectRetries int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	AdminEmail            string
	AdminPassword         string
	AdminPasswordHash     string
}

// PINConfig selects the agent PIN store and its development seed.
type PINConfig struct {
	Store   string
	DevPINs map[int64]string
}

// AnalyticsConfig controls caching of dashboard aggregates.
type AnalyticsConfig struct {
	CacheTTLSeconds int
}

// RateLimitConfig throttles agent PIN logins per client IP.
type RateLimitConfig struct {
	LoginRequests  int
	LoginWindowSec int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	devPINs, err := ParseDevPINs(getEnv("AGENT_DEV_PINS", "1:1234,2:5678,3:9012"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGENT_DEV_PINS: %w", err)
	}

	pinStore := strings.ToLower(getEnv("PIN_STORE", PINStoreMemory))
	if pinStore != PINStoreMemory && pinStore != PINStoreRedis {
		return nil, fmt.Errorf("invalid PIN_STORE %q", pinStore)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "agent-admin-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ConnectRetries: getEnvAsInt("POSTGRES_CONNECT_RETRIES", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AdminEmail:            getEnv("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
			AdminPasswordHash:     os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		PIN: PINConfig{
			Store:   pinStore,
			DevPINs: devPINs,
		},
		Analytics: AnalyticsConfig{
			CacheTTLSeconds: getEnvAsInt("ANALYTICS_CACHE_TTL_SECONDS", 60),
		},
		RateLimit: RateLimitConfig{
			LoginRequests:  getEnvAsInt("RATELIMIT_LOGIN_REQUESTS", 5),
			LoginWindowSec: getEnvAsInt("RATELIMIT_LOGIN_WINDOW_SEC", 60),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
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

// IsDevelopment reports whether development-only behavior is enabled.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// CacheTTL returns the analytics cache lifetime; zero disables caching.
func (a AnalyticsConfig) CacheTTL() time.Duration {
	if a.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

// LoginWindow returns the rate limit window for PIN logins.
func (r RateLimitConfig) LoginWindow() time.Duration {
	if r.LoginWindowSec <= 0 {
		return time.Minute
	}
	return time.Duration(r.LoginWindowSec) * time.Second
}

// ParseDevPINs parses "id:pin,id:pin" pairs. An empty string yields an empty map.
func ParseDevPINs(raw string) (map[int64]string, error) {
	pins := make(map[int64]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return pins, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		idStr, pin, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || pin == "" {
			return nil, fmt.Errorf("malformed entry %q", pair)
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed agent id %q: %w", idStr, err)
		}
		pins[id] = pin
	}
	return pins, nil
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

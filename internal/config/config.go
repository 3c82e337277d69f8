package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	DBConnectRetries  int
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Booking
	CommitTimeout        time.Duration
	LockTimeout          time.Duration
	WeekendSurchargeName string

	// Redis is optional; an empty RedisAddr disables idempotency keys.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	IdempotencyTTL time.Duration

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	return load(true)
}

// LoadTooling is Load for operator commands, which never sign tokens
// and so do not require JWT_SECRET.
func LoadTooling() (*Config, error) {
	return load(false)
}

func load(requireJWT bool) (*Config, error) {
	cfg := &Config{}

	// Load .env file if it exists
	cfg.EnvFileLoaded = godotenv.Load() == nil

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	var err error
	cfg.DBConnectRetries, err = getEnvAsInt("DB_CONNECT_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_RETRIES: %w", err)
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" && requireJWT {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Upper bound for a whole booking transaction.
	cfg.CommitTimeout, err = getEnvAsDuration("COMMIT_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMIT_TIMEOUT: %w", err)
	}

	// Upper bound for waiting on a row or index lock inside that transaction.
	cfg.LockTimeout, err = getEnvAsDuration("LOCK_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCK_TIMEOUT: %w", err)
	}
	if cfg.CommitTimeout <= 0 || cfg.LockTimeout <= 0 {
		return nil, fmt.Errorf("COMMIT_TIMEOUT and LOCK_TIMEOUT must be positive")
	}
	if cfg.LockTimeout > cfg.CommitTimeout {
		return nil, fmt.Errorf("LOCK_TIMEOUT (%s) must not exceed COMMIT_TIMEOUT (%s)", cfg.LockTimeout, cfg.CommitTimeout)
	}

	cfg.WeekendSurchargeName = getEnv("WEEKEND_SURCHARGE_NAME", "Fin de semana")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.IdempotencyTTL, err = getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration is getEnvAsInt for time.ParseDuration values.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}

package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/strataworks/gatehouse/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim stamped into every token

	// Separate signing secrets per token class. Both are required; there
	// is deliberately no generated fallback.
	AccessTokenSecret  string
	RefreshTokenSecret string

	AccessTTL     time.Duration // Access token lifetime (default: 15m)
	RefreshTTL    time.Duration // Refresh token lifetime (default: 168h)
	RememberMeTTL time.Duration // Refresh lifetime with remember-me (default: 720h)

	DatabaseFile string // Path to SQLite database file (default: ./gatehouse.db)

	RevocationBackend string // Revocation list backend (sqlite, redis) (default: sqlite)
	RedisAddr         string // Redis address (required for redis backend)
	RedisPassword     string // Optional Redis password
	RedisDB           int    // Redis database number (default: 0)

	BootstrapEmail    string // First-boot SUPER_ADMIN email (default: admin@gatehouse.local)
	BootstrapPassword string // Optional: generated and logged once when empty

	CORSOrigins []string // Browser origins allowed to send credentials

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:             getEnvOrDefault("AUTH_ISSUER", "gatehouse"),
		AccessTokenSecret:  os.Getenv("AUTH_ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("AUTH_REFRESH_TOKEN_SECRET"),

		AccessTTL:     getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:    getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		RememberMeTTL: getEnvDurationOrDefault("AUTH_REMEMBER_ME_TTL", jwtx.DefaultRememberMeTTL),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "gatehouse.db"),

		RevocationBackend: getEnvOrDefault("AUTH_REVOCATION_BACKEND", "sqlite"),
		RedisAddr:         os.Getenv("AUTH_REDIS_ADDR"),
		RedisPassword:     os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:           getEnvIntOrDefault("AUTH_REDIS_DB", 0),

		BootstrapEmail:    getEnvOrDefault("AUTH_BOOTSTRAP_EMAIL", "admin@gatehouse.local"),
		BootstrapPassword: os.Getenv("AUTH_BOOTSTRAP_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg
}

// SecureCookies reports whether cookies must carry the Secure attribute.
// Only plain-HTTP dev runs without it.
func (c Config) SecureCookies() bool {
	return c.Env != "dev"
}

// placeholderSecrets are values that ship in examples and tutorials. A
// secret containing any of them never signs anything.
var placeholderSecrets = []string{
	"your-secret-key",
	"changeme",
	"change-me",
	"secret-key",
	"example",
	"insecure",
}

// Validate refuses to start on a misconfiguration that would weaken token
// signing. The service exits rather than limping along with a guessable
// secret.
func (c Config) Validate() error {
	if err := validateSecret("AUTH_ACCESS_TOKEN_SECRET", c.AccessTokenSecret); err != nil {
		return err
	}
	if err := validateSecret("AUTH_REFRESH_TOKEN_SECRET", c.RefreshTokenSecret); err != nil {
		return err
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("config: access and refresh token secrets must differ")
	}

	switch c.RevocationBackend {
	case "sqlite":
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("config: AUTH_REDIS_ADDR is required for the redis revocation backend")
		}
	default:
		return fmt.Errorf("config: unknown revocation backend %q", c.RevocationBackend)
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 || c.RememberMeTTL < c.RefreshTTL {
		return errors.New("config: token TTLs must be positive, with remember-me at least the refresh TTL")
	}

	return nil
}

func validateSecret(name, secret string) error {
	if secret == "" {
		return fmt.Errorf("config: %s is required", name)
	}
	if len(secret) < jwtx.MinSecretLen {
		return fmt.Errorf("config: %s must be at least %d bytes, got %d",
			name, jwtx.MinSecretLen, len(secret))
	}
	lower := strings.ToLower(secret)
	for _, placeholder := range placeholderSecrets {
		if strings.Contains(lower, placeholder) {
			return fmt.Errorf("config: %s looks like a placeholder value", name)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}

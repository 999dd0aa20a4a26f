package config // package config loads application configuration from environment variables

import (
	"fmt"     // fmt formats configuration errors
	"os"      // os provides access to environment variables
	"sort"    // sort keeps the missing-variable report stable
	"strings" // strings joins the missing-variable report
	"time"    // time parses token lifetimes

	"github.com/joho/godotenv" // godotenv loads an optional .env file
)

// Storage backends for the reference API.
const (
	StorageMemory = "memory" // seeded in-process repositories
	StorageMySQL  = "mysql"  // users and products in MySQL, carts in Redis
)

// Config holds all runtime configuration values for the storefront API.
// Each field corresponds to an environment variable. The types reflect
// how the values are used: strings for identifiers and secrets, durations
// for lifetimes and ints for costs.
type Config struct {
	Env        string        // application environment (e.g. "dev", "prod")
	Port       string        // HTTP port to listen on
	Storage    string        // memory | mysql
	DBUser     string        // database username (mysql storage)
	DBPass     string        // database password (optional)
	DBHost     string        // database host address
	DBPort     string        // database port number
	DBName     string        // database name
	JWTSecret  string        // secret used to sign JWTs
	AccessTTL  time.Duration // access token lifetime
	BcryptCost int           // bcrypt cost for password hashing

	AdminEmail    string // bootstrap admin account, created at startup when set
	AdminPassword string // password for the bootstrap admin
	AdminName     string // display name for the bootstrap admin

	RabbitURL string // broker for product and cart events; empty disables publishing
	AuditLog  string // file the event consumer appends to
	LogLevel  string // zap level
	LogFormat string // json | console
}

// Load reads an optional .env file and then the environment. Every
// missing required variable is reported in one error.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is fine; real env wins over it

	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:        getenv("APP_ENV", "dev"),
		Port:       getenv("APP_PORT", "8080"),
		Storage:    strings.ToLower(getenv("STORAGE", StorageMemory)),
		JWTSecret:  must("JWT_SECRET"),
		AccessTTL:  envDur("ACCESS_TOKEN_TTL", 24*time.Hour),
		BcryptCost: envInt("BCRYPT_COST", 10),

		AdminEmail:    getenv("ADMIN_EMAIL", ""),
		AdminPassword: getenv("ADMIN_PASSWORD", ""),
		AdminName:     getenv("ADMIN_NAME", "Administrator"),

		RabbitURL: firstEnv("RABBITMQ_URL", "AMQP_URL"),
		AuditLog:  getenv("AUDIT_LOG", "logs/storefront-events.log"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}

	switch cfg.Storage {
	case StorageMemory:
	case StorageMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = getenv("DB_PORT", "3306")
		cfg.DBName = must("DB_NAME")
	default:
		return Config{}, fmt.Errorf("config: STORAGE must be %q or %q, got %q", StorageMemory, StorageMySQL, cfg.Storage)
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, fmt.Errorf("config: missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.AccessTTL <= 0 {
		return Config{}, fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive")
	}
	return cfg, nil
}

// firstEnv returns the first non-empty variable among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // optional .env file loading
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. Types reflect how the
// values are used: strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DB             DBConfig
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	LogLevel       string // zerolog level: debug, info, warn, error
}

// DBConfig selects the MySQL database the store runs against.
// Every field has a default so the management CLI works out of the
// box against a local server.
type DBConfig struct {
	User string // database username
	Pass string // database password (optional)
	Host string // database host address
	Port string // database port number
	Name string // database name
}

// Load reads configuration from the environment (after an optional
// .env file) and returns a Config. Required variables are enforced
// by must() and missing values cause a fatal log message.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine

	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DB:             LoadDB(),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
}

// LoadDB reads only the database variables, falling back to local
// defaults. Used by the management CLI, which must be runnable
// with an empty environment.
func LoadDB() DBConfig {
	_ = godotenv.Load()
	return DBConfig{
		User: getenv("DB_USER", "root"),
		Pass: os.Getenv("DB_PASS"), // empty allowed
		Host: getenv("DB_HOST", "localhost"),
		Port: getenv("DB_PORT", "3306"),
		Name: getenv("DB_NAME", "record_store"),
	}
}

// must retrieves a required environment variable. If the variable
// is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

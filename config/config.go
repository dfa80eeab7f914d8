package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	Database       DatabaseConfig
	Location       *time.Location
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigin     string
	TrustedProxies []string
	Seed           SeedConfig
	Tracing        TracingConfig
}

type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	LogLevel     string
}

// SeedConfig is the fixed inventory provisioned at startup.
type SeedConfig struct {
	RoomNumbers  []string
	Housekeepers []string
}

type TracingConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

// AuthEnabled reports whether bearer tokens are required.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		CORSOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			DSN:      getEnv("DB_DSN", "hotel.db"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
		Tracing: TracingConfig{
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "hotel-housekeeping"),
		},
	}

	var err error
	if cfg.Database.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	cfg.Location, err = time.LoadLocation(getEnv("HOTEL_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("HOTEL_TIMEZONE: %w", err)
	}

	if cfg.Seed.RoomNumbers, err = ParseRoomNumbers(getEnv("SEED_ROOMS", "101-110")); err != nil {
		return nil, fmt.Errorf("SEED_ROOMS: %w", err)
	}
	cfg.Seed.Housekeepers = splitList(getEnv("SEED_HOUSEKEEPERS", "Alice,Bob"))
	// Empty means X-Forwarded-For is never trusted and the peer address is the client.
	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))

	return cfg, nil
}

// ParseRoomNumbers expands a comma separated list where each element is either a single
// room number or an inclusive numeric range such as "201-215".
func ParseRoomNumbers(list string) ([]string, error) {
	var rooms []string
	seen := make(map[string]bool)
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			rooms = append(rooms, n)
		}
	}

	for _, part := range splitList(list) {
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			add(part)
			continue
		}
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q", part)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil || to < from {
			return nil, fmt.Errorf("invalid range %q", part)
		}
		for n := from; n <= to; n++ {
			add(strconv.Itoa(n))
		}
	}

	return rooms, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", key, value)
	}
	return f, nil
}

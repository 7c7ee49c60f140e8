package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSessionSecret = "default_secret_CHANGE_ME"

// Storage backends for cart and favorites snapshots.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageR2       = "r2"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	// External commerce backend
	BackendURL     string
	BackendTimeout time.Duration
	SearchTimeout  time.Duration
	// Persistence
	StorageBackend string
	DBUrl          string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2Timeout         time.Duration
	// Sessions
	SessionSecret string
	SessionTTL    time.Duration
	// Catalog
	FilterDebounce  time.Duration
	CatalogCacheTTL time.Duration
	CatalogPageSize int
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// Business Rules
	MaxCartQuantity int
	Cities          []string
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: .env is optional, system env vars win in containers
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		BackendURL:     getEnv("BACKEND_URL", "http://localhost:9000/api"),
		BackendTimeout: getDurationEnv("BACKEND_TIMEOUT", 10*time.Second),
		SearchTimeout:  getDurationEnv("SEARCH_TIMEOUT", 5*time.Second),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageMemory)),
		DBUrl:          getEnv("DB_DSN", ""),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 20),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2Timeout:         getDurationEnv("R2_TIMEOUT", 10*time.Second),

		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:    getDurationEnv("SESSION_TTL", 30*24*time.Hour),

		FilterDebounce:  getDurationEnv("FILTER_DEBOUNCE", 300*time.Millisecond),
		CatalogCacheTTL: getDurationEnv("CATALOG_CACHE_TTL", 5*time.Minute),
		CatalogPageSize: getIntEnv("CATALOG_PAGE_SIZE", 20),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 1000),
		Cities:          getListEnv("CITIES", defaultCities),
	}
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.DBUrl == "" {
			errs = append(errs, errors.New("DB_DSN is required for the postgres storage backend"))
		}
	case StorageR2:
		if c.R2AccountID == "" || c.R2AccessKeyID == "" || c.R2AccessKeySecret == "" || c.R2BucketName == "" {
			errs = append(errs, errors.New("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_ACCESS_KEY_SECRET and R2_BUCKET_NAME are required for the r2 storage backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if c.BackendURL == "" {
		errs = append(errs, errors.New("BACKEND_URL is required"))
	}
	if c.FilterDebounce < 0 {
		errs = append(errs, errors.New("FILTER_DEBOUNCE must not be negative"))
	}
	if c.CatalogPageSize <= 0 {
		errs = append(errs, errors.New("CATALOG_PAGE_SIZE must be positive"))
	}
	if c.SessionSecret == defaultSessionSecret {
		if c.IsProduction() {
			errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
		} else {
			log.Println("WARNING: Using default session secret.")
		}
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	OriginURL string

	StorageDriver string
	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisKeyTTL   time.Duration
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	JWTSecret            string
	JWTExpiry            time.Duration
	SessionIdleTimeout   time.Duration
	SessionSweepInterval time.Duration

	CatalogBaseURL  string
	CatalogTimeout  time.Duration
	CatalogCacheTTL time.Duration

	LoginDelay      time.Duration
	SignupDelay     time.Duration
	PaymentDelay    time.Duration
	NotificationTTL time.Duration
	FailMode        bool
}

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

var AppConfig *Config

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	AppConfig = &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Port:      getEnv("APP_PORT", getEnv("PORT", "8082")),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		OriginURL: getEnv("ORIGIN_URL", ""),

		StorageDriver: getEnv("STORAGE_DRIVER", StorageMemory),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisKeyTTL:   getEnvDuration("REDIS_KEY_TTL", 30*24*time.Hour),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5454"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "storefront"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),

		JWTSecret:            getEnv("JWT_SECRET", "secret"),
		JWTExpiry:            getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
		SessionIdleTimeout:   getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),

		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
		CatalogTimeout:  getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),

		LoginDelay:      getEnvDuration("LOGIN_DELAY", time.Second),
		SignupDelay:     getEnvDuration("SIGNUP_DELAY", 1500*time.Millisecond),
		PaymentDelay:    getEnvDuration("PAYMENT_DELAY", 2*time.Second),
		NotificationTTL: getEnvDuration("NOTIFICATION_TTL", 4*time.Second),
		FailMode:        getEnvBool("FAIL_MODE", false),
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Server will run on port: %s", AppConfig.Port)

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

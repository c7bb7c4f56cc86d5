package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultPort          = ":9090"
	defaultAPIBaseURL    = "http://localhost:9090/api"
	defaultStorageDriver = "file"
	defaultStoragePath   = ".storefront/state.json"
	defaultRedisAddr     = "localhost:6379"
	defaultHTTPTimeout   = 10 * time.Second
	defaultLogLevel      = "info"
)

type ENV struct {
	Port           string        `validate:"required"`
	APIBaseURL     string        `validate:"required,url"`
	StorageDriver  string        `validate:"oneof=file redis mysql memory"`
	StoragePath    string        `validate:"required_if=StorageDriver file"`
	RedisAddr      string        `validate:"required_if=StorageDriver redis"`
	RedisPassword  string
	RedisDB        int           `validate:"gte=0"`
	DBHost         string        `validate:"required_if=StorageDriver mysql"`
	DBPort         string
	DBUser         string        `validate:"required_if=StorageDriver mysql"`
	DBPassword     string
	DBName         string        `validate:"required_if=StorageDriver mysql"`
	JWTSecret      string
	AppAuthKey     string
	AppEncKey      string
	HTTPTimeout    time.Duration `validate:"gt=0"`
	RemoteSync     bool
	CurrencySymbol string
	LogLevel       string        `validate:"oneof=debug info warn error"`
	AppEnv         string
}

// LoadEnv reads .env when present, then the process environment, and validates the result.
func LoadEnv() (ENV, error) {
	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load(".env")

	env := ENV{
		Port:           getEnv("APP_PORT", defaultPort),
		APIBaseURL:     getEnv("API_BASE_URL", defaultAPIBaseURL),
		StorageDriver:  getEnv("STORAGE_DRIVER", defaultStorageDriver),
		StoragePath:    getEnv("STORAGE_PATH", defaultStoragePath),
		RedisAddr:      getEnv("REDIS_ADDR", defaultRedisAddr),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AppAuthKey:     os.Getenv("APP_AUTH_KEY"),
		AppEncKey:      os.Getenv("APP_ENC_KEY"),
		CurrencySymbol: os.Getenv("CURRENCY_SYMBOL"),
		LogLevel:       getEnv("LOG_LEVEL", defaultLogLevel),
		AppEnv:         getEnv("APP_ENV", "local"),
	}

	var err error
	if env.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return ENV{}, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}
	if env.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", defaultHTTPTimeout.String())); err != nil {
		return ENV{}, fmt.Errorf("HTTP_TIMEOUT must be a duration: %w", err)
	}
	if env.RemoteSync, err = strconv.ParseBool(getEnv("REMOTE_SYNC", "true")); err != nil {
		return ENV{}, fmt.Errorf("REMOTE_SYNC must be a boolean: %w", err)
	}

	if err := validator.New().Struct(env); err != nil {
		return ENV{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return env, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

const defaultPort = "3001"

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	StoreDriver          string
	MongoURI             string
	MongoDatabase        string
	SubmissionCollection string
	Timeout              time.Duration
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RedisKeyPrefix       string
	SQLitePath           string
	StoreTimeout         time.Duration
	SubmissionIDScheme   string
	ExposeStorageErrors  bool
	AllowedOrigins       []string
	LogLevel             logrus.Level
	LogFormat            string
	ServerLog            *logrus.Logger
}

// Load reads an optional .env file and the process environment and returns a fully populated Config.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional; real environment variables take precedence

	timeout, err := durationEnv("MONGO_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	storeTimeout, err := durationEnv("STORE_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	driver := strings.ToLower(envOrDefault("STORE_DRIVER", DriverMongo))
	switch driver {
	case DriverMongo, DriverRedis, DriverSQLite, DriverMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER %q is not supported (mongo, redis, sqlite, memory)", driver)
	}

	scheme := strings.ToLower(envOrDefault("SUBMISSION_ID_SCHEME", "legacy"))
	if scheme != "legacy" && scheme != "uuid" {
		return Config{}, fmt.Errorf("SUBMISSION_ID_SCHEME %q is not supported (legacy, uuid)", scheme)
	}

	redisDB, err := strconv.Atoi(envOrDefault("REDIS_DB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("REDIS_DB: %w", err)
	}

	expose, err := strconv.ParseBool(envOrDefault("EXPOSE_STORAGE_ERRORS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("EXPOSE_STORAGE_ERRORS: %w", err)
	}

	level, err := logrus.ParseLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	format := strings.ToLower(envOrDefault("LOG_FORMAT", "text"))

	addr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if addr == "" {
		addr = ":" + envOrDefault("PORT", defaultPort)
	}

	cfg := Config{
		Addr:                 addr,
		StoreDriver:          driver,
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "survey-creator"),
		SubmissionCollection: envOrDefault("SUBMISSION_COLLECTION", "survey_responses"),
		Timeout:              timeout,
		RedisAddr:            envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		RedisKeyPrefix:       envOrDefault("REDIS_KEY_PREFIX", "survey:"),
		SQLitePath:           envOrDefault("SQLITE_PATH", "survey.db"),
		StoreTimeout:         storeTimeout,
		SubmissionIDScheme:   scheme,
		ExposeStorageErrors:  expose,
		AllowedOrigins:       parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:             level,
		LogFormat:            format,
	}
	cfg.ServerLog = NewLogger(level, format)

	cfg.ServerLog.WithFields(logrus.Fields{
		"addr":   cfg.Addr,
		"driver": cfg.StoreDriver,
		"scheme": cfg.SubmissionIDScheme,
	}).Info("loaded config")

	return cfg, nil
}

// NewLogger builds the process logger. format is "json" or anything else for text.
func NewLogger(level logrus.Level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return parsed, nil
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}

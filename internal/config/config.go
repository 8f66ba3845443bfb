package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Host         string
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		IdleTimeout  time.Duration
	}
	Services struct {
		UserURL     string
		EventURL    string
		CalendarURL string
		Timeout     time.Duration
	}
	Session struct {
		MaxAge time.Duration
		Secure bool
	}
	Feed struct {
		PageSize int
	}
	LogLevel string
}

func Load() *Config {
	// Missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{}

	// Server configuration
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnv("SERVER_PORT", "3000")
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", "10s")
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", "10s")
	cfg.Server.IdleTimeout = getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s")

	// Backend GraphQL endpoints
	cfg.Services.UserURL = getEnv("USER_SERVICE_URL", "http://127.0.0.1:8000/graphql/")
	cfg.Services.EventURL = getEnv("EVENT_SERVICE_URL", "http://127.0.0.1:8001/graphql/")
	cfg.Services.CalendarURL = getEnv("CALENDAR_SERVICE_URL", "http://127.0.0.1:8002/graphql/")
	cfg.Services.Timeout = getEnvAsDuration("SERVICE_TIMEOUT", "10s")

	// Session cookies
	cfg.Session.MaxAge = getEnvAsDuration("SESSION_MAX_AGE", "168h")
	cfg.Session.Secure = getEnvAsBool("SESSION_SECURE", true)

	// Feed
	cfg.Feed.PageSize = getEnvAsInt("FEED_PAGE_SIZE", 8)

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	val := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0)
	}
	return duration
}

func getEnvAsInt(key string, defaultValue int) int {
	val := getEnv(key, strconv.Itoa(defaultValue))
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvAsBool(key string, defaultValue bool) bool {
	val := getEnv(key, strconv.FormatBool(defaultValue))
	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

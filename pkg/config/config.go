package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	AppAddr = ":3000"

	// Backend settings
	APIBaseURL = "http://127.0.0.1:8080/api/v1"
	APITimeout = 30 * time.Second

	// Session settings
	SessionName   = "cms-console"
	SessionSecret = "change-me"

	// Registry of backend endpoints; empty means the embedded default.
	ResourcesFile = ""

	ItemsPerPage = 10
	LogLevel     = "info"
)

func Init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	AppAddr = getEnv("APP_ADDR", ":3000")
	APIBaseURL = strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8080/api/v1"), "/")

	SessionName = getEnv("SESSION_NAME", "cms-console")
	SessionSecret = getEnv("SESSION_SECRET", "change-me")

	ResourcesFile = getEnv("RESOURCES_FILE", "")
	LogLevel = getEnv("LOG_LEVEL", "info")

	if t := os.Getenv("API_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			APITimeout = d
		}
	}

	if n := os.Getenv("ITEMS_PER_PAGE"); n != "" {
		if val, err := strconv.Atoi(n); err == nil && val > 0 {
			ItemsPerPage = val
		}
	}
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	CORSAllowedOrigin string

	ReportCacheExpiration      time.Duration
	ReportCacheCleanupInterval time.Duration

	MaxImportRows      int
	MaxRequestBodySize int64

	DashboardWarmOnImport bool
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxImportRowsStr := getEnv("MAX_IMPORT_ROWS", "50000")
	maxImportRows, err := strconv.Atoi(maxImportRowsStr)
	if err != nil || maxImportRows <= 0 {
		log.Printf("WARNING: Invalid MAX_IMPORT_ROWS '%s'. Using default 50000.", maxImportRowsStr)
		maxImportRows = 50000
	}

	maxBodyStr := getEnv("MAX_REQUEST_BODY_SIZE", "10485760")
	maxBody, err := strconv.ParseInt(maxBodyStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_REQUEST_BODY_SIZE format '%s'. Using default 10MB. Error: %v", maxBodyStr, err)
		maxBody = 10 * 1024 * 1024
	}

	warmStr := getEnv("DASHBOARD_WARM_ON_IMPORT", "true")
	warm, err := strconv.ParseBool(warmStr)
	if err != nil {
		log.Printf("WARNING: Invalid DASHBOARD_WARM_ON_IMPORT '%s'. Using default true.", warmStr)
		warm = true
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./fluxocaixa.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),

		ReportCacheExpiration:      getEnvAsDuration("REPORT_CACHE_EXPIRATION", 15*time.Minute),
		ReportCacheCleanupInterval: getEnvAsDuration("REPORT_CACHE_CLEANUP_INTERVAL", 30*time.Minute),

		MaxImportRows:      maxImportRows,
		MaxRequestBodySize: maxBody,

		DashboardWarmOnImport: warm,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

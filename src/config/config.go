package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	DatabasePath       string
	LogLevel           string
	MaxUploadSizeBytes int64

	// Message source settings. SenderIDs is the list of known mobile-money
	// sender identities; each one becomes its own source query. The keyword
	// pattern backs the additional broad query that catches messages sent
	// from unlisted identities.
	SenderIDs      []string
	KeywordPattern string

	SourceFetchTimeout time.Duration
	ParseWorkers       int

	ReportCacheExpiration time.Duration
	ReportCacheCleanup    time.Duration
}

var Cfg *AppConfig

const defaultKeywordPattern = `(MPESA|M-PESA|Mpesa|MPKWA|Confirmed|received from)`

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	senderIDsStr := getEnv("SMS_SENDER_IDS", "MPESA,M-PESA,SAFARICOM,MPKWA")
	var senderIDs []string
	for _, id := range strings.Split(senderIDsStr, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			senderIDs = append(senderIDs, trimmed)
		}
	}
	if len(senderIDs) == 0 {
		log.Printf("WARNING: SMS_SENDER_IDS resolved to an empty list ('%s'). Only the keyword source will run.", senderIDsStr)
	}

	parseWorkers := getEnvAsInt("PARSE_WORKERS", 4)
	if parseWorkers < 1 {
		log.Printf("WARNING: PARSE_WORKERS must be at least 1, got %d. Using 1.", parseWorkers)
		parseWorkers = 1
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./sadakatracker.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,

		SenderIDs:      senderIDs,
		KeywordPattern: getEnv("SMS_KEYWORD_PATTERN", defaultKeywordPattern),

		SourceFetchTimeout: getEnvAsDuration("SOURCE_FETCH_TIMEOUT", 10*time.Second),
		ParseWorkers:       parseWorkers,

		ReportCacheExpiration: getEnvAsDuration("REPORT_CACHE_EXPIRATION", 15*time.Minute),
		ReportCacheCleanup:    getEnvAsDuration("REPORT_CACHE_CLEANUP", 30*time.Minute),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, Senders=%v",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.SenderIDs)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
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

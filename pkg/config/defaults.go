// Package config provides centralized default values for Bellyfed analytics
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database Configuration
	DBDriver string
	DBPath   string

	// Auth Configuration
	JWTSecret          string
	AdminPasswordHash  string
	TokenLifetimeHours int

	// Analytics Configuration
	TrendingDefaultLimit int
	TrendingMaxLimit     int
	EngagementWeight     int

	// TTL Configuration
	AnalyticsBinTTL    time.Duration
	EntityMetricsTTL   time.Duration
	TrendingTTL        time.Duration
	KVDefaultTTL       time.Duration
	SlowQueryThreshold time.Duration

	// Cleanup Intervals
	CleanupInterval time.Duration

	// Report Configuration
	ReportInterval  time.Duration
	ReportRecipient string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database Configuration
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "bellyfed-analytics.db")

	// Auth Configuration
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	TokenLifetimeHours = getEnvInt("TOKEN_LIFETIME_HOURS", 24)

	// Analytics Configuration
	TrendingDefaultLimit = getEnvInt("TRENDING_DEFAULT_LIMIT", 10)
	TrendingMaxLimit = getEnvInt("TRENDING_MAX_LIMIT", 100)
	EngagementWeight = getEnvInt("ENGAGEMENT_WEIGHT", 3)

	// TTL Configuration
	AnalyticsBinTTL = time.Duration(getEnvInt("ANALYTICS_BIN_TTL_DAYS", 31)) * 24 * time.Hour
	EntityMetricsTTL = time.Duration(getEnvInt("ENTITY_METRICS_TTL_MINUTES", 5)) * time.Minute
	TrendingTTL = time.Duration(getEnvInt("TRENDING_TTL_MINUTES", 10)) * time.Minute
	KVDefaultTTL = time.Duration(getEnvInt("KV_DEFAULT_TTL_MINUTES", 60)) * time.Minute
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Cleanup Intervals
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute

	// Report Configuration
	ReportInterval = time.Duration(getEnvInt("REPORT_INTERVAL_HOURS", 24)) * time.Hour
	ReportRecipient = getEnvString("REPORT_RECIPIENT", "")
}

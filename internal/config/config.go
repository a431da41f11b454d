package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the engine loader
type Config struct {
	Engine EngineConfig
	Redis  RedisConfig
}

// EngineConfig holds object-loading configuration
type EngineConfig struct {
	// DataDir is the directory holding object definition JSON files
	DataDir string

	// LegacyDataPath points at the legacy definition table, empty to skip
	// the legacy import
	LegacyDataPath string

	// LegacyEntryCount is the expected number of legacy entries, 0 to
	// accept any count
	LegacyEntryCount int

	// SnapshotName names the registry snapshot written after loading
	SnapshotName string
}

// RedisConfig holds Redis-specific configuration. An empty Addr disables
// snapshot persistence.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Engine: EngineConfig{
			DataDir:          os.Getenv("OBJECTS_DATA_DIR"),
			LegacyDataPath:   os.Getenv("LEGACY_DATA_PATH"),
			LegacyEntryCount: getEnvAsIntOrDefault("LEGACY_ENTRY_COUNT", 0),
			SnapshotName:     getEnvOrDefault("SNAPSHOT_NAME", "current"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
	}

	// Validate required fields
	if cfg.Engine.DataDir == "" {
		return nil, fmt.Errorf("OBJECTS_DATA_DIR is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string

	// Block simulator settings; stand-ins for a chain RPC connection.
	StartBlock    uint64
	BlockInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:           getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:     getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		BlockInterval: 2 * time.Second,
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-only-secret"
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	cfg.RedisDB = db

	startBlock, err := strconv.ParseUint(getEnv("START_BLOCK", "1"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid START_BLOCK: %v", err)
	}
	cfg.StartBlock = startBlock

	if ms := os.Getenv("BLOCK_INTERVAL_MS"); ms != "" {
		interval, err := strconv.Atoi(ms)
		if err != nil || interval <= 0 {
			return nil, fmt.Errorf("invalid BLOCK_INTERVAL_MS: %q", ms)
		}
		cfg.BlockInterval = time.Duration(interval) * time.Millisecond
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

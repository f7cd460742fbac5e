package utils

import (
	"os"
	"strconv"
	"time"
)

// GetEnv returns the value of the environment variable key, or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func GetEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetEnvSeconds reads a whole number of seconds.
func GetEnvSeconds(key string, fallback time.Duration) time.Duration {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return time.Duration(value) * time.Second
}

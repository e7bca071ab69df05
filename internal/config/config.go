// Package config reads process configuration from the environment. A .env
// file is loaded once by main via Load; everything else is plain env vars
// with defaults.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file if present. Missing files are not an error so
// deployments can rely on real environment variables.
func Load() error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// Get returns the environment variable or the default value
func Get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetInt returns the environment variable parsed as int, or the default
func GetInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Require returns the environment variable, or ok=false when unset
func Require(key string) (string, bool) {
	value := os.Getenv(key)
	return value, value != ""
}

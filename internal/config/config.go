// Package config reads process configuration from the environment with
// documented fallbacks. Values are business policy, not engine logic, so
// they stay out of the services packages.
package config

import (
	"os"
	"strconv"
)

// Get returns the environment value for key, or fallback when unset or
// empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetInt returns the integer environment value for key, or fallback when
// unset or unparsable.
func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetFloat returns the float environment value for key, or fallback when
// unset or unparsable.
func GetFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

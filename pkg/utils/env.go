package utils

import (
	"os"
	"strconv"
	"strings"
)

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if len(value) == 0 {
		return fallback
	}
	return value
}

// GetenvInt is Getenv for integer values. Unparseable values yield the fallback.
func GetenvInt(key string, fallback int) int {
	value, err := strconv.Atoi(Getenv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetenvBool is Getenv for boolean values ("true", "1", ...).
func GetenvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(Getenv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

package env

import "os"

// Get returns the environment variable for key or defaultValue when unset or empty.
func Get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Bool reads a boolean flag; only "true" and "1" count as set.
func Bool(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}

// Package env provides last-resort environment lookups for values that need
// reading before the typed config is loaded.
package env

import "os"

// Get reads an environment variable, falling back when unset or empty.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

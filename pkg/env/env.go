// Package env holds the raw environment lookups that run before the
// typed MAHALLA_* config is loaded, such as picking the logger output
// format at process start.
package env

import "os"

// Get returns the value of the given environment variable, falling back
// when it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

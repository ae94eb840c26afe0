package env

import "os"

// Get reads an environment variable, falling back when it is unset or empty.
// Meant for the few reads that live outside the typed config, like the log
// format switch and the platform-assigned port.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

package env

import (
	"os"
	"strconv"
	"strings"
)

// Prefix is the prefix of every environment variable suiterun reads
const Prefix = "SUITERUN_"

// LoadSystemEnv returns the OS environment variables starting with prefix,
// keyed by the remainder of their name
func LoadSystemEnv(prefix string) map[string]string {
	result := make(map[string]string)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}

// String returns the variable or defaultVal when it is unset or empty
func String(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Bool accepts true, 1 and yes as true
func Bool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// Int returns defaultVal when the variable is unset or not a number
func Int(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

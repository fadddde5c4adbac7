package procutil

import (
	"os"
	"strings"
)

// EnvVar names an environment variable that provides a flag default.
type EnvVar string

const (
	// WP_AUTOLOAD_DEBUG enables debug logging.
	WP_AUTOLOAD_DEBUG = EnvVar("WP_AUTOLOAD_DEBUG")
	// WP_AUTOLOAD_STRICT makes resolution fail on owned symbols without a file.
	WP_AUTOLOAD_STRICT = EnvVar("WP_AUTOLOAD_STRICT")
	// COMPOSER is composer's own override of the composer.json location.
	COMPOSER = EnvVar("COMPOSER")
)

// LookupBoolEnv parses name as a boolean, returning defaultValue when it is
// unset or not one of true, false, 1, 0.
func LookupBoolEnv(name EnvVar, defaultValue bool) bool {
	if val, ok := os.LookupEnv(string(name)); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
	}
	return defaultValue
}

func LookupEnv(name EnvVar) (string, bool) {
	return os.LookupEnv(string(name))
}

// Package debug provides the global debug logging switch.
package debug

import (
	"log"
	"strings"
)

// Enabled controls whether debug logging is active
var Enabled bool

// Configure enables debug logging when level is "debug" (any case).
func Configure(level string) {
	Enabled = strings.EqualFold(strings.TrimSpace(level), "debug")
}

// Log prints a message to the standard logger only if debug mode is enabled
func Log(format string, args ...interface{}) {
	if Enabled {
		log.Printf("[debug] "+format, args...)
	}
}

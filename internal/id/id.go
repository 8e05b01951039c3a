package id

import (
	"strings"

	"github.com/google/uuid"
)

// shortLen is the number of characters shown by Short.
const shortLen = 8

// New returns a fresh random record ID.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s looks like an ID produced by New.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Short returns the leading characters of an ID for display.
func Short(s string) string {
	if len(s) <= shortLen {
		return s
	}
	return s[:shortLen]
}

// Match reports whether ref selects full, either exactly or as a unique
// display prefix (at least 4 characters).
func Match(full, ref string) bool {
	if full == ref {
		return true
	}
	return len(ref) >= 4 && strings.HasPrefix(full, ref)
}

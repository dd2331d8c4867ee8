package model

import (
	"strings"
	"time"
)

// MaxNameLength is the maximum participant name length in runes.
// Longer names are truncated, not rejected.
const MaxNameLength = 40

// Participant represents a registered player in a session
type Participant struct {
	Name     string
	JoinedAt time.Time
}

// NormalizeName trims and bounds a raw display name.
// Returns ErrInvalidName only if the trimmed name is empty.
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrInvalidName
	}
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = string(runes[:MaxNameLength])
	}
	return name, nil
}

package models

import (
	"regexp"
	"strings"
	"time"
)

var snowflakePattern = regexp.MustCompile(`^\d{17,20}$`)

// IsSnowflake reports whether v is a numeric-string Discord identifier
// (17-20 digits).
func IsSnowflake(v string) bool {
	return snowflakePattern.MatchString(strings.TrimSpace(v))
}

// Clamp truncates s to at most max characters.
func Clamp(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// CleanText trims and clamps a free-text field.
func CleanText(s string, max int) string {
	return Clamp(strings.TrimSpace(s), max)
}

// NowISO returns the current UTC time in the ISO form the collections
// have always stored.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

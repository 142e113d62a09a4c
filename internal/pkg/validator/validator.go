package validator

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsValidMonth checks a "YYYY-MM" value.
func IsValidMonth(month string) (time.Time, bool) {
	if !monthRegex.MatchString(month) {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01", month)
	return t, err == nil
}

// IsInSlice reports whether value is one of allowed
func IsInSlice(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}

// MaxLength reports whether s has at most n characters.
func MaxLength(s string, n int) bool {
	return len([]rune(s)) <= n
}

package handlers

import (
	"regexp"
	"strconv"
	"strings"
)

var phoneRe = regexp.MustCompile(`^\+?\d{9,15}$`)

// parsePhone normalizes a phone number, stripping whitespace. Returns
// "" when the value is not a plausible phone.
func parsePhone(value string) string {
	cleaned := strings.Join(strings.Fields(value), "")
	if phoneRe.MatchString(cleaned) {
		return cleaned
	}
	return ""
}

// parsePositiveNumber accepts "12", "12.5" and "12,5" style input.
// Returns ok=false for anything non-numeric or not strictly positive.
func parsePositiveNumber(value string) (float64, bool) {
	cleaned := strings.ReplaceAll(value, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

// parseUserID reads a numeric Telegram user ID.
func parseUserID(value string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

package utils

import (
	"regexp"
	"strings"
)

var (
	mobilePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	idNumberPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{4}-[0-9]{4}$`)
	nonDigit        = regexp.MustCompile(`[^0-9]`)
)

// IsValidMobile: exactly 10 digits after trimming.
func IsValidMobile(mobile string) bool {
	return mobilePattern.MatchString(strings.TrimSpace(mobile))
}

// IsValidIDNumber checks the canonical "NNNN-NNNN-NNNN" identity format.
func IsValidIDNumber(id string) bool {
	return idNumberPattern.MatchString(strings.TrimSpace(id))
}

// NormalizeIDNumber strips separators and reformats 12 digits to the
// canonical "NNNN-NNNN-NNNN". Returns "" if the input cannot be normalized.
func NormalizeIDNumber(id string) string {
	digits := nonDigit.ReplaceAllString(id, "")
	if len(digits) != 12 {
		return ""
	}
	return digits[:4] + "-" + digits[4:8] + "-" + digits[8:]
}

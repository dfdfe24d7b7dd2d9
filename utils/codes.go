package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// Serial and entry numbers are short type-prefixed strings: a 6-digit suffix
// of the current unix time plus a 3-digit random disambiguator, e.g.
// "S123456789". Assigned once at creation, never reused.

var codePattern = regexp.MustCompile(`^[A-Z][0-9]{9}$`)

func generateCode(prefix string) (string, error) {
	if len(prefix) != 1 || prefix[0] < 'A' || prefix[0] > 'Z' {
		return "", errors.New("invalid code prefix")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	ts := time.Now().Unix() % 1000000
	return fmt.Sprintf("%s%06d%03d", prefix, ts, n.Int64()), nil
}

// GenerateSerialNo สร้างหมายเลข serial เช่น "S734501283"
func GenerateSerialNo() (string, error) {
	return generateCode("S")
}

// GenerateEntryNo สร้างหมายเลข entry เช่น "E734501283"
func GenerateEntryNo() (string, error) {
	return generateCode("E")
}

// IsValidCodeFormat reports whether s has the serial/entry number shape:
// one letter followed by nine digits. Caller-supplied entry numbers are held
// to the same shape as generated ones.
func IsValidCodeFormat(s string) bool {
	return codePattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

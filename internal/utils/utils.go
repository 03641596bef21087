package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ShortenString cuts s after l bytes and marks the cut with "...". An l of 0
// leaves s as it is.
func ShortenString(s string, l int) string {
	if len(s) > l && l != 0 {
		return fmt.Sprintf("%s...", s[:l])
	}
	return s
}

// RandomString appends a dash and 16 random hex characters to base.
func RandomString(base string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", base, hex.EncodeToString(b)), nil
}

package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	RecoveryCodeLength = 8
	NumRecoveryCodes   = 10
)

// GenerateRecoveryCodes generates a set of random recovery codes
func GenerateRecoveryCodes() ([]string, error) {
	codes := make([]string, NumRecoveryCodes)

	for i := 0; i < NumRecoveryCodes; i++ {
		bytes := make([]byte, RecoveryCodeLength/2)
		if _, err := rand.Read(bytes); err != nil {
			return nil, err
		}

		code := strings.ToUpper(hex.EncodeToString(bytes))
		// Hyphen in the middle for readability
		codes[i] = code[:4] + "-" + code[4:]
	}

	return codes, nil
}

// HashString returns the hex-encoded SHA-256 digest of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashRecoveryCodes hashes the recovery codes for storage. Codes are
// normalized (hyphens stripped, uppercased) before hashing.
func HashRecoveryCodes(codes []string) []string {
	hashed := make([]string, len(codes))
	for i, code := range codes {
		normalized := strings.ToUpper(strings.ReplaceAll(code, "-", ""))
		hashed[i] = HashString(normalized)
	}
	return hashed
}

package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// Email reports whether s has a local@domain.tld shape. No DNS or MX
// verification is attempted.
func Email(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Phone reports whether s is an optional leading plus followed by 10 to 15
// digits.
func Phone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

// HashSensitive returns the hex SHA-256 digest of s. The digest is
// deterministic and unsalted: it serves as a pseudonymous dedup key, not as
// credential storage.
func HashSensitive(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

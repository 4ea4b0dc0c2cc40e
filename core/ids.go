package core

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"mcpanel/utils"
)

// NewID generates a new ULID with the given prefix.
// The format is: prefix_ULID
// Example: core.NewID("ses") returns "ses_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	utils.AssertInvariant(strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)

	return normalizePrefix(prefix) + "_" + id.String()
}

// IsValidID reports whether id has the form prefix_ULID and, when expectedPrefix is
// non-empty, whether the prefix matches it.
func IsValidID(id, expectedPrefix string) bool {
	prefix, ulidPart, found := strings.Cut(id, "_")
	if !found || prefix == "" || strings.Contains(ulidPart, "_") {
		return false
	}

	if expectedPrefix != "" && prefix != normalizePrefix(expectedPrefix) {
		return false
	}

	for _, r := range prefix {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}

	if len(ulidPart) != ulid.EncodedSize {
		return false
	}

	_, err := ulid.ParseStrict(ulidPart)
	return err == nil
}

// NewSecretKey generates a cryptographically secure secret with the given prefix.
// The format is: prefix_base64url(32 random bytes)
func NewSecretKey(prefix string) (string, error) {
	utils.AssertInvariant(strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("failed to generate random secret key: %w", err)
	}

	return normalizePrefix(prefix) + "_" + base64.RawURLEncoding.EncodeToString(secretBytes), nil
}

func normalizePrefix(prefix string) string {
	return strings.ToLower(strings.TrimSpace(prefix))
}

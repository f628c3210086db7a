package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"planbackend/utils"
)

// stateRandomBytes is the entropy of the random segment of an OAuth state token (128 bits)
const stateRandomBytes = 16

// NewID generates a new ULID with the given prefix.
// The format is: prefix_ULID
// Example: core.NewID("int") returns "int_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	utils.AssertInvariant(prefix != "" && strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	// Generate a new ULID with current timestamp and crypto/rand entropy
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)

	// Return formatted ID with lowercase prefix
	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + id.String()
}

// IsValidULID checks if the given string is a valid ULID format with prefix.
// The format should be: prefix_ULID where ULID is 26 characters, base32 encoded.
// Returns true if valid, false otherwise.
func IsValidULID(id string) bool {
	if id == "" {
		return false
	}

	// Find the underscore separator
	parts := strings.Split(id, "_")
	if len(parts) != 2 {
		return false
	}

	prefix := parts[0]
	ulidPart := parts[1]

	// Validate prefix: should be non-empty, lowercase alphanumeric
	if prefix == "" {
		return false
	}
	for _, r := range prefix {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}

	if len(ulidPart) != 26 {
		return false
	}

	_, err := ulid.ParseStrict(ulidPart)
	return err == nil
}

// NewStateToken generates an unguessable OAuth state token.
// The format is: base36(128 random bits) + base36(unix millis), e.g. "5x1kq0...9zlm2r4k0"
func NewStateToken() (string, error) {
	randomBytes := make([]byte, stateRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random state: %w", err)
	}

	randomSegment := new(big.Int).SetBytes(randomBytes).Text(36)
	timeSegment := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return randomSegment + timeSegment, nil
}

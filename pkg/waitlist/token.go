package waitlist

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// verificationTokenBytes is the entropy of an email verification token.
// 32 bytes gives 256 bits, enough that collisions are never a practical
// concern and tokens cannot be guessed.
const verificationTokenBytes = 32

// NewVerificationToken generates a single-use email verification token.
func NewVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

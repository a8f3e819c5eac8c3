package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// AlphanumericAlphabet is the character set for random identifiers such as
// group share codes and password reset tokens. Mixed case keeps short codes
// hard to guess.
const AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns a cryptographically secure random string of length n
// drawn from alphabet.
func RandomString(n int, alphabet string) (string, error) {
	if n <= 0 || len(alphabet) == 0 {
		return "", fmt.Errorf("invalid random string parameters")
	}

	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// RandomOtp returns a random code of digits decimal digits, zero padded.
// Codes are compared as strings so leading zeros are preserved.
func RandomOtp(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("invalid otp length")
	}

	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}

// RandomHex returns a random hex string of 2*byteLen characters. Used for
// user ids.
func RandomHex(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

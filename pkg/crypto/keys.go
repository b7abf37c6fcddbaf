package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// AccessTokenBytes is the entropy of a contract access token. 32 bytes
	// keeps guessing infeasible for a bearer credential.
	AccessTokenBytes = 32
)

// HashAPIKey hashes an admin API key using bcrypt
func HashAPIKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(bytes), nil
}

// CheckAPIKey compares an API key with a bcrypt hash
func CheckAPIKey(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// GenerateRandomToken generates a hex token with the given number of random bytes
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateAccessToken generates a contract access token from a
// cryptographically secure source
func GenerateAccessToken() (string, error) {
	return GenerateRandomToken(AccessTokenBytes)
}

package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultKDFIterations = 100000
	keyLength            = 64 // 512 бит
	saltLength           = 16
	MinPasswordLength    = 6
)

// NewSalt возвращает случайную соль в hex
func NewSalt() (string, error) {
	b := make([]byte, saltLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword - PBKDF2-HMAC-SHA512 от пароля и соли, результат в hex
func HashPassword(password, salt string, iterations int) string {
	if iterations <= 0 {
		iterations = DefaultKDFIterations
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha512.New)
	return hex.EncodeToString(key)
}

// CheckPassword сравнивает за постоянное время
func CheckPassword(password, salt, hash string, iterations int) bool {
	derived := HashPassword(password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}

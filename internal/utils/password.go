package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost pins the bcrypt work factor. Stored hashes embed their
// cost, so raising this only affects passwords hashed afterwards.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword derives the bcrypt digest stored in place of the plaintext
// password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext password matches the stored
// bcrypt digest.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

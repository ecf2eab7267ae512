// Package hash wraps bcrypt for password storage. Hashing embeds a random
// salt, so two hashes of the same plaintext never compare equal.
package hash

import "golang.org/x/crypto/bcrypt"

// Hash returns a bcrypt hash of plain at the default cost.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches hashed. A malformed stored hash is
// treated as a mismatch, never an error.
func Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// Package password wraps bcrypt hashing behind the two operations the
// authentication service needs: a one-way salted hash and a comparison that
// never distinguishes "wrong password" from "malformed hash".
package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/akeray/property-system/internal/core/domain"
)

// Cost is the bcrypt work factor. It matches the factor already used for
// every stored hash, so changing it requires a rehash-on-login migration.
const Cost = 10

// Hash returns a salted bcrypt hash of plain. Each call salts independently,
// so two hashes of the same password differ. An empty password is rejected
// with ErrMissingCredential rather than silently hashed.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", domain.ErrMissingCredential
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. A mismatch is false, not an
// error: callers map it to the same failure as an unknown account.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

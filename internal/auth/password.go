package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password digests are tagged with the algorithm that produced them so the
// scheme can be migrated without a flag day. Two forms are recognised:
//
//	bcrypt:<bcrypt-hash>          (current scheme, per-record salt)
//	sha256:<pepper>:<hex-digest>  (legacy scheme, fixed application pepper)
//
// New digests are always bcrypt. Legacy digests remain verifiable because the
// pepper is carried inside the digest itself; accounts are rehashed the next
// time the password changes.

// HashPassword returns a tagged bcrypt digest of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return "bcrypt:" + string(hash), nil
}

// VerifyPassword checks a plaintext password against a tagged digest.
// A malformed or unrecognised digest verifies as false, never as an error.
func VerifyPassword(password, digest string) bool {
	algo, rest, ok := strings.Cut(digest, ":")
	if !ok {
		return false
	}

	switch algo {
	case "bcrypt":
		return bcrypt.CompareHashAndPassword([]byte(rest), []byte(password)) == nil
	case "sha256":
		pepper, want, ok := strings.Cut(rest, ":")
		if !ok {
			return false
		}
		sum := sha256.Sum256([]byte(password + pepper))
		got := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
	default:
		return false
	}
}

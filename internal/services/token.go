package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

const (
	// DefaultMagicLinkTTL is how long a magic link stays valid.
	DefaultMagicLinkTTL = 10 * time.Minute
	// magicTokenBytes is the entropy of the cleartext token.
	magicTokenBytes = 32
)

// GenerateMagicToken returns a fresh one-time login token: the cleartext
// value mailed to the user, the sha256 digest stored at rest, and the
// expiry timestamp. The cleartext never touches the database.
func GenerateMagicToken(ttl time.Duration) (cleartext string, digest string, expiry time.Time, err error) {
	if ttl <= 0 {
		ttl = DefaultMagicLinkTTL
	}

	buf := make([]byte, magicTokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}

	cleartext = hex.EncodeToString(buf)
	digest = HashMagicToken(cleartext)
	expiry = time.Now().Add(ttl)
	return cleartext, digest, expiry, nil
}

// HashMagicToken derives the stored digest from a cleartext token.
// The digest must be deterministic so verification is a simple
// hash-and-compare against the persisted value.
func HashMagicToken(cleartext string) string {
	sum := sha256.Sum256([]byte(cleartext))
	return hex.EncodeToString(sum[:])
}

// VerifyMagicToken checks a presented cleartext against the stored
// digest and expiry. A token whose expiry equals now is already expired.
func VerifyMagicToken(cleartext, digest string, expiry *time.Time, now time.Time) bool {
	if cleartext == "" || digest == "" || expiry == nil {
		return false
	}
	if !expiry.After(now) {
		return false
	}
	hashed := HashMagicToken(cleartext)
	return subtle.ConstantTimeCompare([]byte(hashed), []byte(digest)) == 1
}

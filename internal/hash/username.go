// Package hash provides salted, one-way username pseudonymization.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// DefaultSalt is the compile-time default, expected to be rotated by a
// deployment via the configuration loader before any probe begins.
const DefaultSalt = "sentinel_default_salt"

var (
	mu   sync.RWMutex
	salt = DefaultSalt
)

// SetSalt overrides the process-wide salt. Intended to be called exactly
// once, at configuration time, before any probe runs; the core itself never
// calls this.
func SetSalt(s string) {
	mu.Lock()
	defer mu.Unlock()
	salt = s
}

// Salt returns the currently configured salt.
func Salt() string {
	mu.RLock()
	defer mu.RUnlock()
	return salt
}

// Username returns a stable, one-way pseudonym of the form "user_XXXX":
// the literal prefix "user_" followed by the first 4 hex characters of
// sha256(salt + ":" + username). Two distinct plaintext usernames may
// collide on the tag; this is an accepted tradeoff for a short, stable
// correlation key, not a weakness to be "fixed" by lengthening it (doing
// so would depart from the observed "9 ASCII characters" output format).
func Username(username string) string {
	salted := Salt() + ":" + username
	sum := sha256.Sum256([]byte(salted))
	digest := hex.EncodeToString(sum[:])
	return "user_" + digest[:4]
}

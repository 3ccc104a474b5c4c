package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/nutriscan-health/nutriscan-api/config"
)

var (
	secretMu       sync.RWMutex
	secretOverride []byte
)

// SetJWTSecret pins the signing secret, overriding the configured value.
// Tests use it to get deterministic digests without touching the config
// singleton; passing an empty string removes the override.
func SetJWTSecret(secret string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	if secret == "" {
		secretOverride = nil
		return
	}
	secretOverride = []byte(secret)
}

// GetJWTSecretByte returns the HMAC key shared by session-token signing and
// password hashing. The override wins when set; otherwise the key comes from
// the loaded configuration. Callers get a copy.
func GetJWTSecretByte() []byte {
	secretMu.RLock()
	override := secretOverride
	secretMu.RUnlock()
	if override != nil {
		return append([]byte(nil), override...)
	}
	return []byte(config.LoadConfig().JWTSecret)
}

// HashPassword derives a hex-encoded HMAC-SHA256 digest of the password
// keyed by the service secret. Equal inputs under the same secret always
// produce equal digests, so login can compare stored and submitted values
// in constant time.
func HashPassword(password string) string {
	h := hmac.New(sha256.New, GetJWTSecretByte())
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

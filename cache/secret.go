// Package cache provides the ephemeral code store and the refresh token
// store, in redis-backed (cache/redis) and in-memory flavors.
package cache

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Key prefixes keep the two secret classes distinct so a code can never
// collide with a refresh token in the backing store.
const (
	CodePrefix         = "c."
	RefreshTokenPrefix = "s."
)

// SecretLength is the random part of every generated secret.
const SecretLength = 64

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewSecret returns prefix + SecretLength cryptographically random
// alphanumeric characters.
func NewSecret(prefix string) (string, error) {
	buf := make([]byte, SecretLength)
	charsetLen := big.NewInt(int64(len(alphanumeric)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate secret: %w", err)
		}
		buf[i] = alphanumeric[n.Int64()]
	}
	return prefix + string(buf), nil
}

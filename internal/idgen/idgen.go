// Package idgen mints cryptographically random identifiers: short,
// unguessable game ids for the registry, and subscriber ids for attached
// connections.
package idgen

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultGameIDLength is the number of random bytes backing a game id
// before base32 encoding (8 bytes -> 13 base32 characters).
const DefaultGameIDLength = 8

// GameID mints a short, unguessable, URL-safe game id.
func GameID() (string, error) {
	return randomBase32(DefaultGameIDLength)
}

func randomBase32(nbytes int) (string, error) {
	buf := make([]byte, nbytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("idgen: failed to generate random id: %w", err)
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return strings.ToLower(enc), nil
}

// SubscriberID mints an id for one attached connection. These are never
// exposed on the wire, so a UUID is a natural fit.
func SubscriberID() string {
	return uuid.NewString()
}

// Package identity derives a stable pseudonymous identifier for a
// requester so no raw IP address is ever stored.
package identity

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
)

// ClientIP extracts the forwarded client address: the first entry of
// X-Forwarded-For, then X-Real-IP, then the literal "unknown". Visitors
// behind the same proxy or NAT may share an address; that is accepted.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "unknown"
}

// ClientHash returns the visitor identifier for a request: the first 16
// hex characters of the SHA-256 digest of the client address.
func ClientHash(r *http.Request) string {
	return Hash(ClientIP(r))
}

// Hash derives the 16-character identifier from an address.
func Hash(address string) string {
	sum := sha256.Sum256([]byte(address))
	return fmt.Sprintf("%x", sum)[:16]
}

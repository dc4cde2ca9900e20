// Package agentx derives the browser fingerprint used to bind remember-me
// tokens to the client, and extracts the client IP from a request.
package agentx

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
)

// Fingerprint returns the SHA-1 hex digest of the user-agent string. It is
// a weak binding between a token and the browser it was issued to, not an
// authentication factor.
func Fingerprint(userAgent string) string {
	sum := sha1.Sum([]byte(userAgent))
	return hex.EncodeToString(sum[:])
}

// ClientIP extracts the client address from the request, honoring
// X-Forwarded-For and X-Real-IP set by proxies before falling back to
// RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Package auth extracts the bearer credential the realtime channel and HTTP
// client authenticate with. Absence of a token is an expected state ("cannot
// establish a channel yet"), never an error.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerScheme = "Bearer "

// BearerToken locates the authorization header (case-insensitive), strips an
// optional "Bearer " scheme prefix and returns the trimmed remainder. The
// second return is false when no header is present or the token is empty
// after trimming.
func BearerToken(headers http.Header) (string, bool) {
	raw := ""
	for key, values := range headers {
		if !strings.EqualFold(key, "Authorization") || len(values) == 0 {
			continue
		}
		raw = values[0]
		break
	}
	return parseBearer(raw)
}

// FromValue applies the same scheme-stripping rules to a single header value.
func FromValue(value string) (string, bool) {
	return parseBearer(value)
}

func parseBearer(raw string) (string, bool) {
	token := strings.TrimSpace(raw)
	if len(token) >= len(bearerScheme) && strings.EqualFold(token[:len(bearerScheme)], bearerScheme) {
		token = strings.TrimSpace(token[len(bearerScheme):])
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// Expiry reads the exp claim of a JWT without verifying the signature.
// The client holds no signing key; it only wants to know whether dialing with
// this token can possibly succeed. Returns false for opaque (non-JWT) tokens
// or tokens without an exp claim.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Subject reads the sub claim of a JWT without verifying the signature.
// Opaque tokens act as their own subject, which keeps ad-hoc development
// tokens usable as plain user ids.
func Subject(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil || claims.Subject == "" {
		return token, true
	}
	return claims.Subject, true
}

// Expired reports whether the token carries an exp claim in the past.
// Opaque tokens are never considered expired; the backend is the judge.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	if !ok {
		return false
	}
	return exp.Before(now)
}

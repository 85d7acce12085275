package client

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the locally decodable token claims. Decoding never checks the
// signature, so a well-formed Claims value proves nothing about authenticity;
// it is a UX hint only.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Introspector decodes token payloads locally. All methods are pure
// functions of their input: no side effects, no network access.
//
// Advisory only. Never use introspection results for authorization
// decisions; the server's 401 contract is the sole authority.
type Introspector struct {
	now func() time.Time
}

// NewIntrospector creates an Introspector using the wall clock.
func NewIntrospector() *Introspector {
	return &Introspector{now: time.Now}
}

// NewIntrospectorAt creates an Introspector with an injected clock.
func NewIntrospectorAt(now func() time.Time) *Introspector {
	return &Introspector{now: now}
}

// Decode splits the compact token, base64url-decodes the payload segment and
// parses its JSON. The signature segment is ignored. Malformed input yields
// an error wrapping ErrDecode.
func (i *Introspector) Decode(token string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return claims, nil
}

// IsExpired reports whether the token's expiry has passed. A missing expiry
// claim or an undecodable payload counts as expired (fail-closed), so a
// tampered-looking token forces re-authentication rather than being shown as
// valid.
func (i *Introspector) IsExpired(token string) bool {
	claims, err := i.Decode(token)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(i.now())
}

// ExpirationInstant returns the token's expiry, or false when the token is
// undecodable or carries no expiry claim.
func (i *Introspector) ExpirationInstant(token string) (time.Time, bool) {
	claims, err := i.Decode(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Subject returns the token's subject claim, or false when the token is
// undecodable or the claim is empty.
func (i *Introspector) Subject(token string) (string, bool) {
	claims, err := i.Decode(token)
	if err != nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

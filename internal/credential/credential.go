// Package credential owns the locally persisted bearer credential and its
// structural decoding. Nothing here verifies signatures: the backend does that.
// The store only needs the embedded claims to reason about freshness.
package credential

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the access token payload the storefront reads.
type Claims struct {
	Role  string `json:"role,omitempty"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Credential is a decoded bearer token.
type Credential struct {
	RawToken  string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RoleClaim string
}

// IsExpiredAt reports whether the credential is expired at now.
// A nil credential is always expired.
func (c *Credential) IsExpiredAt(now time.Time) bool {
	if c == nil {
		return true
	}
	return !c.ExpiresAt.After(now)
}

// RemainingAt is the validity left at now, never negative.
func (c *Credential) RemainingAt(now time.Time) time.Duration {
	if c.IsExpiredAt(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

var parser = jwt.NewParser()

// Decode splits raw into its three segments and reads the payload claims.
// Malformed input yields nil; it never returns an error or panics.
// The expiry must come from the token's own exp claim; tokens without one
// are treated as malformed.
func Decode(raw string) *Credential {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Count(raw, ".") != 2 {
		return nil
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}

	cred := &Credential{
		RawToken:  raw,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
		RoleClaim: claims.Role,
	}
	if claims.IssuedAt != nil {
		cred.IssuedAt = claims.IssuedAt.Time
	}
	if cred.RoleClaim == "" && claims.Admin {
		cred.RoleClaim = RoleAdmin
	}
	return cred
}

// RoleAdmin is the role claim value that grants admin.
const RoleAdmin = "admin"

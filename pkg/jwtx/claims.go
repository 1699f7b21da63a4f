package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of a bearer issued to a PSU.
const DefaultAccessTokenTTL = 15 * time.Minute

// Scopes carried by ledgers bearer tokens.
const (
	// ScopeSCA is granted after login while an authorisation is still open.
	ScopeSCA = "sca"
	// ScopePartial is granted once one party of a multilevel SCA finished.
	ScopePartial = "partial_access"
	// ScopeFull is granted once SCA completed.
	ScopeFull = "full_access"
)

// Claims are the bearer claims issued by the ledgers authority.
type Claims struct {
	jwt.RegisteredClaims

	// Scopes granted to the bearer, one of the Scope* constants.
	Scopes []string `json:"scopes,omitempty"`

	// Login of the authenticated PSU.
	Login string `json:"login,omitempty"`

	// OperationID and AuthorisationID bind the bearer to one SCA. Both are
	// empty for login-only tokens.
	OperationID     string `json:"op,omitempty"`
	AuthorisationID string `json:"authz,omitempty"`

	// Authentication Methods Reference, e.g. ["pin"] or ["pin","otp"].
	AMR []string `json:"amr,omitempty"`
}

// ClaimsParams groups the values needed to mint an access token.
type ClaimsParams struct {
	Subject         string
	Login           string
	OperationID     string
	AuthorisationID string
	Scopes          []string
	AMR             []string
	Issuer          string
	Audience        []string
	TTL             time.Duration
}

// NewAccessClaims builds minimally-correct claims.
func NewAccessClaims(p ClaimsParams, now time.Time) Claims {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scopes:          p.Scopes,
		Login:           p.Login,
		OperationID:     p.OperationID,
		AuthorisationID: p.AuthorisationID,
		AMR:             p.AMR,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether scope was granted.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ExpiresIn returns the remaining lifetime in whole seconds, never negative.
func (c *Claims) ExpiresIn(now time.Time) int {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(int(c.ExpiresAt.Sub(now).Seconds()), 0)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used before
// nbf, allowing leeway for clock skew.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
)

// Authentication method references carried in issued bearers.
const (
	AMRPIN = "pin"
	AMROTP = "otp"
)

// IssuedToken is a bearer handed to a PSU.
type IssuedToken struct {
	AccessToken string
	ExpiresIn   int
	Scope       string
}

// TokenService mints and validates PSU bearers.
type TokenService struct {
	KeyManager *jwtx.KeyManager
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	Now        func() time.Time
}

// Grant describes what a bearer is good for.
type Grant struct {
	Login           string
	OperationID     string
	AuthorisationID string
	Scopes          []string
	AMR             []string
}

// Issue signs a bearer for g.
func (s *TokenService) Issue(g Grant) (*IssuedToken, error) {
	now := s.now()
	claims := jwtx.NewAccessClaims(jwtx.ClaimsParams{
		Subject:         g.Login,
		Login:           g.Login,
		OperationID:     g.OperationID,
		AuthorisationID: g.AuthorisationID,
		Scopes:          g.Scopes,
		AMR:             g.AMR,
		Issuer:          s.Issuer,
		Audience:        s.Audience,
		TTL:             s.AccessTTL,
	}, now)

	signed, err := s.KeyManager.Signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign bearer: %w", err)
	}
	return &IssuedToken{
		AccessToken: signed,
		ExpiresIn:   claims.ExpiresIn(now),
		Scope:       strings.Join(g.Scopes, " "),
	}, nil
}

// Validate checks raw and returns it with its remaining lifetime.
func (s *TokenService) Validate(raw string) (*IssuedToken, jwtx.Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, jwtx.Claims{}, ErrInvalidToken
	}
	claims, err := s.KeyManager.Verifier.Verify(raw)
	if err != nil {
		return nil, jwtx.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &IssuedToken{
		AccessToken: raw,
		ExpiresIn:   claims.ExpiresIn(s.now()),
		Scope:       strings.Join(claims.Scopes, " "),
	}, claims, nil
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/aussiebroadwan/scaconnect/pkg/idx"
	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// DefaultCodeTTL is the lifetime of an OAuth authorization code.
const DefaultCodeTTL = 2 * time.Minute

// OAuthService is the sandbox OAuth server used by the OAuth SCA
// approaches: authorization code grant with mandatory PKCE.
type OAuthService struct {
	Store  store.Store
	Tokens *TokenService
	Hasher cryptox.SecretHasher

	// Clients lists the accepted client ids. Empty accepts any client.
	Clients []string
	CodeTTL time.Duration
	Now     func() time.Time
}

// AuthoriseRequest is a PSU's answer at the authorise endpoint.
type AuthoriseRequest struct {
	ResponseType        string
	ClientID            string
	RedirectURI         string
	Scope               []string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string

	Login string
	PIN   string
}

// Authorise authenticates the PSU and returns the redirect URI carrying a
// fresh authorization code.
func (s *OAuthService) Authorise(ctx context.Context, req AuthoriseRequest) (string, error) {
	if req.ResponseType != "code" {
		return "", fmt.Errorf("%w: response_type must be code", ErrInvalidRequest)
	}
	if !s.knownClient(req.ClientID) {
		return "", ErrInvalidClient
	}
	redirect, err := url.Parse(req.RedirectURI)
	if err != nil || !redirect.IsAbs() || (redirect.Scheme != "http" && redirect.Scheme != "https") {
		return "", fmt.Errorf("%w: redirect_uri must be an absolute http(s) URL", ErrInvalidRequest)
	}
	challenge, method, err := validatePKCE(req.CodeChallenge, req.CodeChallengeMethod)
	if err != nil {
		return "", err
	}

	psu, err := authenticate(ctx, s.Store, s.Hasher, req.Login, req.PIN)
	if err != nil {
		return "", err
	}

	code, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	now := s.now()
	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	scopes := req.Scope
	if len(scopes) == 0 {
		scopes = []string{jwtx.ScopeSCA}
	}

	rec := domain.OAuthCode{
		ID:                  idx.New(idx.KindOAuthCode).String(),
		CodeHash:            cryptox.FingerprintToken(code),
		ClientID:            req.ClientID,
		RedirectURI:         req.RedirectURI,
		PSULogin:            psu.Login,
		Scopes:              scopes,
		CodeChallenge:       challenge,
		CodeChallengeMethod: method,
		ExpiresAt:           now.Add(ttl),
		CreatedAt:           now,
	}
	if err := s.Store.OAuthCodes().CreateOAuthCode(ctx, rec); err != nil {
		return "", fmt.Errorf("store authorization code: %w", err)
	}

	q := redirect.Query()
	q.Set("code", code)
	if req.State != "" {
		q.Set("state", req.State)
	}
	redirect.RawQuery = q.Encode()

	slogx.FromContext(ctx).Info("authorization code issued", "client_id", req.ClientID, "login", psu.Login)
	return redirect.String(), nil
}

// Exchange redeems an authorization code for a bearer. Codes are single use.
func (s *OAuthService) Exchange(ctx context.Context, clientID, code, redirectURI, verifier string) (*IssuedToken, error) {
	if !s.knownClient(clientID) {
		return nil, ErrInvalidClient
	}
	code = strings.TrimSpace(code)
	if code == "" || strings.TrimSpace(redirectURI) == "" {
		return nil, ErrInvalidGrant
	}

	now := s.now()
	var rec domain.OAuthCode
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		rec, err = tx.OAuthCodes().GetOAuthCodeByHash(ctx, cryptox.FingerprintToken(code))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidGrant
			}
			return err
		}

		switch {
		case rec.ClientID != clientID:
			return ErrInvalidClient
		case rec.RedirectURI != redirectURI:
			return ErrInvalidGrant
		case rec.UsedAt != nil || now.After(rec.ExpiresAt):
			return ErrInvalidGrant
		case !verifyCodeVerifier(rec.CodeChallenge, rec.CodeChallengeMethod, verifier):
			return ErrInvalidGrant
		}

		if err := tx.OAuthCodes().MarkOAuthCodeUsed(ctx, rec.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidGrant
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Tokens.Issue(Grant{Login: rec.PSULogin, Scopes: rec.Scopes, AMR: []string{AMRPIN}})
}

func (s *OAuthService) knownClient(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	return len(s.Clients) == 0 || slices.Contains(s.Clients, id)
}

func (s *OAuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// validatePKCE requires a challenge; the sandbox only has public clients.
func validatePKCE(challenge, method string) (string, string, error) {
	challenge = strings.TrimSpace(challenge)
	if challenge == "" {
		return "", "", fmt.Errorf("%w: code_challenge is required", ErrInvalidRequest)
	}

	method = strings.TrimSpace(method)
	switch {
	case method == "":
		return challenge, "S256", nil
	case strings.EqualFold(method, "S256"):
		return challenge, "S256", nil
	case strings.EqualFold(method, "plain"):
		return challenge, "plain", nil
	default:
		return "", "", fmt.Errorf("%w: unsupported code_challenge_method", ErrInvalidRequest)
	}
}

func verifyCodeVerifier(challenge, method, verifier string) bool {
	verifier = strings.TrimSpace(verifier)
	if challenge == "" || verifier == "" {
		return false
	}

	switch method {
	case "plain":
		return subtle.ConstantTimeCompare([]byte(challenge), []byte(verifier)) == 1
	case "S256":
		sum := sha256.Sum256([]byte(verifier))
		expected := base64.RawURLEncoding.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(challenge), []byte(expected)) == 1
	default:
		return false
	}
}

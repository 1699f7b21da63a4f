package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
)

const testVerifier = "dBjftJeZ4CVP-mJ92K9ZsXk3qZ8t7bJYqNWm4ZsW3wQ"

func s256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func authoriseRequest() AuthoriseRequest {
	return AuthoriseRequest{
		ResponseType:        "code",
		ClientID:            "scaconnect",
		RedirectURI:         "https://tpp.example/cb",
		State:               "xyz",
		CodeChallenge:       s256(testVerifier),
		CodeChallengeMethod: "S256",
		Login:               "anton.brueckner",
		PIN:                 "12345",
	}
}

func codeFrom(t *testing.T, redirect string) string {
	t.Helper()
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	require.Equal(t, "xyz", u.Query().Get("state"))
	code := u.Query().Get("code")
	require.NotEmpty(t, code)
	return code
}

func TestOAuthCodeFlow(t *testing.T) {
	t.Parallel()
	s := newSandbox(t)
	s.oauth.Clients = []string{"scaconnect"}
	ctx := context.Background()

	t.Run("code redeems once", func(t *testing.T) {
		redirect, err := s.oauth.Authorise(ctx, authoriseRequest())
		require.NoError(t, err)
		code := codeFrom(t, redirect)

		tok, err := s.oauth.Exchange(ctx, "scaconnect", code, "https://tpp.example/cb", testVerifier)
		require.NoError(t, err)
		require.Equal(t, jwtx.ScopeSCA, tok.Scope)

		_, claims, err := s.tokens.Validate(tok.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "anton.brueckner", claims.Login)

		_, err = s.oauth.Exchange(ctx, "scaconnect", code, "https://tpp.example/cb", testVerifier)
		require.ErrorIs(t, err, ErrInvalidGrant)
	})

	t.Run("wrong verifier", func(t *testing.T) {
		redirect, err := s.oauth.Authorise(ctx, authoriseRequest())
		require.NoError(t, err)

		_, err = s.oauth.Exchange(ctx, "scaconnect", codeFrom(t, redirect), "https://tpp.example/cb", "not-the-verifier")
		require.ErrorIs(t, err, ErrInvalidGrant)
	})

	t.Run("wrong redirect", func(t *testing.T) {
		redirect, err := s.oauth.Authorise(ctx, authoriseRequest())
		require.NoError(t, err)

		_, err = s.oauth.Exchange(ctx, "scaconnect", codeFrom(t, redirect), "https://evil.example/cb", testVerifier)
		require.ErrorIs(t, err, ErrInvalidGrant)
	})

	t.Run("expired code", func(t *testing.T) {
		s := newSandbox(t)
		redirect, err := s.oauth.Authorise(ctx, authoriseRequest())
		require.NoError(t, err)

		s.oauth.Now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err = s.oauth.Exchange(ctx, "scaconnect", codeFrom(t, redirect), "https://tpp.example/cb", testVerifier)
		require.ErrorIs(t, err, ErrInvalidGrant)
	})

	t.Run("unknown client", func(t *testing.T) {
		req := authoriseRequest()
		req.ClientID = "stranger"
		_, err := s.oauth.Authorise(ctx, req)
		require.ErrorIs(t, err, ErrInvalidClient)

		_, err = s.oauth.Exchange(ctx, "stranger", "code", "https://tpp.example/cb", testVerifier)
		require.ErrorIs(t, err, ErrInvalidClient)
	})

	t.Run("request is checked before the PSU", func(t *testing.T) {
		cases := map[string]func(*AuthoriseRequest){
			"token response type": func(r *AuthoriseRequest) { r.ResponseType = "token" },
			"relative redirect":   func(r *AuthoriseRequest) { r.RedirectURI = "/cb" },
			"missing challenge":   func(r *AuthoriseRequest) { r.CodeChallenge = "" },
			"unknown method":      func(r *AuthoriseRequest) { r.CodeChallengeMethod = "S512" },
		}
		for name, mutate := range cases {
			req := authoriseRequest()
			mutate(&req)
			_, err := s.oauth.Authorise(ctx, req)
			require.ErrorIs(t, err, ErrInvalidRequest, name)
		}
	})

	t.Run("wrong pin", func(t *testing.T) {
		req := authoriseRequest()
		req.PIN = "00000"
		_, err := s.oauth.Authorise(ctx, req)
		require.ErrorIs(t, err, ErrPSUCredentialsInvalid)
	})
}

func TestVerifyCodeVerifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		challenge string
		method    string
		verifier  string
		want      bool
	}{
		{"s256 match", s256(testVerifier), "S256", testVerifier, true},
		{"s256 mismatch", s256(testVerifier), "S256", "other", false},
		{"plain match", "plain-secret", "plain", "plain-secret", true},
		{"plain mismatch", "plain-secret", "plain", "other", false},
		{"empty verifier", s256(testVerifier), "S256", "", false},
		{"unknown method", s256(testVerifier), "S512", testVerifier, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, verifyCodeVerifier(tt.challenge, tt.method, tt.verifier))
		})
	}
}

func TestValidatePKCE(t *testing.T) {
	t.Parallel()

	_, method, err := validatePKCE("abc", "")
	require.NoError(t, err)
	require.Equal(t, "S256", method)

	_, method, err = validatePKCE("abc", "PLAIN")
	require.NoError(t, err)
	require.Equal(t, "plain", method)

	_, _, err = validatePKCE(" ", "S256")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

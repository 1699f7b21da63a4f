package ledgersdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// OAuthParams describes one authorisation code flow.
type OAuthParams struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	State       string

	// Login and PIN authenticate the PSU at the authorise endpoint.
	Login string
	PIN   string
}

// OAuth2Config returns the x/oauth2 configuration for the authority.
func (c *Client) OAuth2Config(p OAuthParams) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    p.ClientID,
		RedirectURL: p.RedirectURI,
		Scopes:      p.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.url("/oauth/authorise"),
			TokenURL:  c.url("/oauth/token"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthorizeWithPIN posts the PSU's credentials to the authorise endpoint
// and returns the authorization code from the redirect.
func (c *Client) AuthorizeWithPIN(ctx context.Context, p OAuthParams, challenge string) (string, error) {
	data := url.Values{
		"response_type":         {"code"},
		"client_id":             {p.ClientID},
		"redirect_uri":          {p.RedirectURI},
		"login":                 {p.Login},
		"pin":                   {p.PIN},
		"code_challenge":        {challenge},
		"code_challenge_method": {"S256"},
	}
	if p.State != "" {
		data.Set("state", p.State)
	}
	if len(p.Scopes) > 0 {
		data.Set("scope", strings.Join(p.Scopes, " "))
	}

	// Create HTTP client that doesn't follow redirects
	noRedirectClient := &http.Client{
		Timeout:   c.HTTPClient.Timeout,
		Transport: c.HTTPClient.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/oauth/authorise"), strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := noRedirectClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusFound {
		return "", parseErrorResponse(resp, bodyBytes)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("redirect response missing Location header")
	}
	code, _, err := ParseAuthorizationCallback(location)
	return code, err
}

// Exchange trades an authorization code for a bearer token.
func (c *Client) Exchange(ctx context.Context, p OAuthParams, code, verifier string) (*BearerToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)

	tok, err := c.OAuth2Config(p).Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return nil, &APIError{StatusCode: re.Response.StatusCode, Code: re.ErrorCode, Description: re.ErrorDescription}
		}
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	out := &BearerToken{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.Type(),
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		out.ExpiresIn = int(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		out.Scope = scope
	}
	return out, nil
}

// AuthorizeAndExchange runs the whole authorisation code flow with PKCE.
func (c *Client) AuthorizeAndExchange(ctx context.Context, p OAuthParams) (*BearerToken, error) {
	verifier := oauth2.GenerateVerifier()

	code, err := c.AuthorizeWithPIN(ctx, p, oauth2.S256ChallengeFromVerifier(verifier))
	if err != nil {
		return nil, err
	}
	return c.Exchange(ctx, p, code, verifier)
}

// ParseAuthorizationCallback extracts code and state from a redirect URL.
func ParseAuthorizationCallback(callbackURL string) (code, state string, err error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse callback URL: %w", err)
	}

	query := u.Query()

	if errorCode := query.Get("error"); errorCode != "" {
		return "", "", &APIError{
			StatusCode:  http.StatusBadRequest,
			Code:        errorCode,
			Description: query.Get("error_description"),
		}
	}

	code = query.Get("code")
	if code == "" {
		return "", "", fmt.Errorf("callback missing authorization code")
	}

	return code, query.Get("state"), nil
}

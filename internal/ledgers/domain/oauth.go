package domain

import "time"

// OAuthCode is an issued authorization code of the sandbox OAuth server.
type OAuthCode struct {
	ID                  string
	CodeHash            string
	ClientID            string
	RedirectURI         string
	PSULogin            string
	Scopes              []string
	CodeChallenge       string
	CodeChallengeMethod string
	ExpiresAt           time.Time
	UsedAt              *time.Time
	CreatedAt           time.Time
}

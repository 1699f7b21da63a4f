package domain

// BearerToken is the access token the authority issued to the PSU.
type BearerToken struct {
	AccessToken  string `json:"accessToken"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int    `json:"expiresIn,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Value returns the access token or "" for a nil bearer.
func (b *BearerToken) Value() string {
	if b == nil {
		return ""
	}
	return b.AccessToken
}

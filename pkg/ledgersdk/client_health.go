package ledgersdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the authority is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks if the authority can serve requests.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJWKS fetches the keys the authority signs bearers with.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var out JWKSResponse
	if err := c.doJSON(ctx, http.MethodGet, "/.well-known/jwks.json", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOAuthServer fetches the OAuth server metadata.
func (c *Client) GetOAuthServer(ctx context.Context) (*OAuthServerInfo, error) {
	var out OAuthServerInfo
	if err := c.doJSON(ctx, http.MethodGet, "/oauth/server", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

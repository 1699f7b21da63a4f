package ledgersdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateConsent creates a consent and its first authorisation.
func (c *Client) CreateConsent(ctx context.Context, req ConsentRequest) (*SCAResponse, error) {
	var out SCAResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/consents", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment creates a payment of the given product.
func (c *Client) CreatePayment(ctx context.Context, product string, req PaymentRequest) (*SCAResponse, error) {
	var out SCAResponse
	path := "/v1/payments/" + url.PathEscape(product)
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartAuthorisation opens another authorisation on an operation, e.g. for
// the next party of a multilevel SCA.
func (c *Client) StartAuthorisation(ctx context.Context, operationID string) (*SCAResponse, error) {
	var out SCAResponse
	path := "/v1/sca/" + url.PathEscape(operationID) + "/authorisations"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates a PSU with login and PIN.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*SCAResponse, error) {
	var out SCAResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/sca/login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectMethod chooses the SCA method; the authority sends the code.
func (c *Client) SelectMethod(ctx context.Context, operationID, authorisationID, methodID string) (*SCAResponse, error) {
	var out SCAResponse
	path := authorisationPath(operationID, authorisationID) + "/methods/" + url.PathEscape(methodID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyCode submits the SCA code.
func (c *Client) VerifyCode(ctx context.Context, operationID, authorisationID, code string) (*SCAResponse, error) {
	var out SCAResponse
	path := authorisationPath(operationID, authorisationID) + "/code"
	if err := c.doJSON(ctx, http.MethodPost, path, CodeRequest{Code: code}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyConfirmation lets the authority check a confirmation code.
func (c *Client) VerifyConfirmation(ctx context.Context, operationID, authorisationID, code string) (*ConfirmationResponse, error) {
	var out ConfirmationResponse
	path := authorisationPath(operationID, authorisationID) + "/confirmation"
	if err := c.doJSON(ctx, http.MethodPost, path, CodeRequest{Code: code}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteConfirmation reports the verdict of a locally checked
// confirmation code.
func (c *Client) CompleteConfirmation(ctx context.Context, operationID, authorisationID string, confirmed bool) (*ConfirmationResponse, error) {
	var out ConfirmationResponse
	path := authorisationPath(operationID, authorisationID) + "/confirmation/complete"
	in := CompleteConfirmationRequest{Confirmed: confirmed}
	if err := c.doJSON(ctx, http.MethodPost, path, in, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Revoke cancels an authorisation.
func (c *Client) Revoke(ctx context.Context, operationID, authorisationID string) (*SCAResponse, error) {
	var out SCAResponse
	if err := c.doJSON(ctx, http.MethodDelete, authorisationPath(operationID, authorisationID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateToken checks an access token and returns it with its remaining
// lifetime.
func (c *Client) ValidateToken(ctx context.Context, token string) (*BearerToken, error) {
	var out BearerToken
	if err := c.doJSON(ctx, http.MethodPost, "/v1/token/validate", ValidateTokenRequest{Token: token}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func authorisationPath(operationID, authorisationID string) string {
	return "/v1/sca/" + url.PathEscape(operationID) + "/authorisations/" + url.PathEscape(authorisationID)
}

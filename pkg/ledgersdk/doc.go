/*
Package ledgersdk is a client for the ledgers SCA authority.

# Overview

The ledgers authority owns consents, payments and the PSU's SCA methods. It
runs the authorisation of an operation and issues short-lived bearer
tokens once a PSU has authenticated. The connector drives it through this
package; the bundled sandbox (cmd/scaconnect ledgers) implements the same
HTTP contract.

	client := ledgersdk.NewClient("http://localhost:8081")

	op, err := client.CreateConsent(ctx, ledgersdk.ConsentRequest{PSUID: "anton.brueckner"})
	login, err := client.Login(ctx, ledgersdk.LoginRequest{
		Login:           "anton.brueckner",
		PIN:             "12345",
		OperationID:     op.OperationID,
		AuthorisationID: op.AuthorisationID,
		OperationType:   ledgersdk.OperationConsent,
	})

# Bearer tokens

Every call after the login needs the PSU's bearer. Either bind it
explicitly:

	psu := client.WithToken(login.BearerToken.AccessToken)
	res, err := psu.SelectMethod(ctx, op.OperationID, op.AuthorisationID, "sms-1")

or give the client an http.Client whose transport adds the header from the
request context, which is how the connector scopes a bearer to one step.

# OAuth

For the OAuth approaches the sandbox is also an authorisation server.
AuthorizeAndExchange runs the authorisation code flow with PKCE and returns a
token usable with ValidateToken:

	tok, err := client.AuthorizeAndExchange(ctx, ledgersdk.OAuthParams{
		ClientID:    "tpp",
		RedirectURI: "http://localhost/cb",
		Login:       "anton.brueckner",
		PIN:         "12345",
	})

# Errors

Non-2xx responses are returned as *APIError carrying the HTTP status and a
machine readable code:

	var apiErr *ledgersdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == ledgersdk.ErrorCodePSUCredentialsInvalid {
		// wrong PIN or code
	}
*/
package ledgersdk

package scaconnect_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
)

func TestHealth(t *testing.T) {
	s := setupStack(t, nil)

	res, err := http.Get(s.connector + "/livez")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	health, err := ledgersdk.NewClient(s.ledgers).GetReadiness(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}

func TestConsentEmbedded(t *testing.T) {
	s := setupStack(t, nil)

	started := s.mustStep(t, "/v1/consents", consentBody())
	assert.Equal(t, "RECEIVED", started.ScaStatus)
	assert.NotEmpty(t, started.ConsentID)
	assert.Nil(t, started.Links, "embedded carries no links")

	// A single method is selected without asking
	identified := s.mustStep(t, "/v1/authorisations/psu-authentication", map[string]any{
		"token": started.Token, "login": psuLogin, "pin": psuPIN,
	})
	assert.Equal(t, "SCA_METHOD_SELECTED", identified.ScaStatus)
	assert.Equal(t, "email-anton", identified.ChosenScaMethod)

	done := s.mustStep(t, "/v1/authorisations/code", map[string]any{
		"token": identified.Token, "code": staticCode,
	})
	assert.Equal(t, "FINALISED", done.ScaStatus)
	assert.Equal(t, "VALID", done.ConsentStatus)

	// The closed authorisation cannot be driven again
	code, env := s.post(t, "/v1/authorisations/code", map[string]any{
		"token": identified.Token, "code": staticCode,
	}, nil)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "illegal_transition", env.Error.Code)
}

func TestPaymentWithMethodChoice(t *testing.T) {
	s := setupStack(t, nil)

	started := s.mustStep(t, "/v1/payments/sepa-credit-transfers", paymentBody())
	assert.NotEmpty(t, started.PaymentID)

	identified := s.mustStep(t, "/v1/authorisations/psu-authentication", map[string]any{
		"token": started.Token, "login": psuMulti, "pin": psuPIN,
	})
	assert.Equal(t, "PSU_AUTHENTICATED", identified.ScaStatus)
	require.Len(t, identified.ScaMethods, 3)

	selected := s.mustStep(t, "/v1/authorisations/sca-method", map[string]any{
		"token": identified.Token, "methodId": "sms-max",
	})
	assert.Equal(t, "SCA_METHOD_SELECTED", selected.ScaStatus)

	// A wrong code leaves the authorisation open
	code, env := s.post(t, "/v1/authorisations/code", map[string]any{
		"token": selected.Token, "code": "000000",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "psu_credentials_invalid", env.Error.Code)

	done := s.mustStep(t, "/v1/authorisations/code", map[string]any{
		"token": selected.Token, "code": staticCode,
	})
	assert.Equal(t, "FINALISED", done.ScaStatus)
	assert.Equal(t, "ACTC", done.TransactionStatus)
}

func TestWrongPINAndRevoke(t *testing.T) {
	s := setupStack(t, nil)

	started := s.mustStep(t, "/v1/consents", consentBody())

	code, env := s.post(t, "/v1/authorisations/psu-authentication", map[string]any{
		"token": started.Token, "login": psuLogin, "pin": "99999",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "psu_credentials_invalid", env.Error.Code)

	revoked := s.mustStep(t, "/v1/authorisations/revoke", map[string]any{"token": started.Token})
	assert.Equal(t, "FINALISED", revoked.ScaStatus)
	assert.True(t, revoked.Revoked)
}

func TestRedirectLinks(t *testing.T) {
	s := setupStack(t, map[string]string{"SCA_DEFAULT_APPROACH": "REDIRECT"})

	code, env := s.post(t, "/v1/consents", consentBody(), map[string]string{
		"TPP-Redirect-Preferred": "true",
	})
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, env.Payload)
	require.NotNil(t, env.Payload.Links)
	assert.NotEmpty(t, env.Payload.Links.ScaRedirect)
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/aussiebroadwan/scaconnect/internal/connector/approach"
	"github.com/aussiebroadwan/scaconnect/internal/connector/codec"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/internal/connector/replay"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service/mocks"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// plainIDs keeps rendered links readable in assertions.
type plainIDs struct{}

func (plainIDs) EncryptConsentID(id string) (string, error) { return "enc-" + id, nil }
func (plainIDs) EncryptPaymentID(id string) (string, error) { return "enc-" + id, nil }

type reply struct {
	Success bool         `json:"success"`
	Payload StepResponse `json:"payload"`
	Error   *ErrorDetail `json:"error"`
}

type connector struct {
	router    *Router
	authority *mocks.MockAuthority
}

func testProfile() approach.Profile {
	p := approach.DefaultProfile()
	p.AISRedirectURL = "https://aspsp/ais?c={encrypted-consent-id}&r={redirect-id}"
	p.PISRedirectURL = "https://aspsp/pis?p={encrypted-payment-id}&r={redirect-id}"
	p.PISCancellationRedirectURL = "https://aspsp/cancel?p={encrypted-payment-id}&r={redirect-id}"
	p.OAuthConfigurationURL = "https://idp/oauth/server"
	return p
}

// sealFailure stands in for a sealer that lost its key.
type sealFailure struct{}

func (sealFailure) EncryptConsentID(string) (string, error) { return "", errors.New("sealer offline") }
func (sealFailure) EncryptPaymentID(string) (string, error) { return "", errors.New("sealer offline") }

func newConnector(t *testing.T, checks ...Check) *connector {
	t.Helper()
	return newConnectorWithIDs(t, plainIDs{}, checks...)
}

func newConnectorWithIDs(t *testing.T, ids approach.IDEncrypter, checks ...Check) *connector {
	t.Helper()

	ctrl := gomock.NewController(t)
	authority := mocks.NewMockAuthority(ctrl)
	reg := prometheus.NewRegistry()

	engine := service.NewEngine(authority, service.NoMethodsAuthenticated, replay.NewMemoryGuard(time.Hour), service.NewMetrics(reg))
	resolver := approach.NewResolver(approach.Config{Default: domain.ApproachEmbedded, Profile: testProfile()})

	r := NewRouter(engine, resolver, ids, reg, slogx.Discard())
	r.Checks = checks
	r.ApplyRoutes()

	return &connector{router: r, authority: authority}
}

func (c *connector) post(t *testing.T, path string, body any, headers map[string]string) (int, reply) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var out reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func (c *connector) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func psuBearer() *domain.BearerToken {
	return &domain.BearerToken{AccessToken: "psu-at", TokenType: "Bearer", ExpiresIn: 300}
}

func smsAndEmail() []domain.ScaMethod {
	return []domain.ScaMethod{
		{ID: "sms-1", Type: domain.MethodSMS},
		{ID: "email-1", Type: domain.MethodEmail},
	}
}

func TestConsentEmbeddedFlow(t *testing.T) {
	t.Parallel()
	c := newConnector(t)

	c.authority.EXPECT().CreateConsent(gomock.Any(), gomock.Any()).
		Return(&domain.AuthorityResponse{OperationID: "consent-1", AuthorisationID: "auth-1"}, nil)

	code, res := c.post(t, "/v1/consents", domain.ConsentRequest{
		PSUID:    "anton.brueckner",
		Accounts: []string{"DE89370400440532013000"},
	}, map[string]string{approach.HeaderRedirectPreferred: "false"})
	require.Equal(t, http.StatusCreated, code)
	require.True(t, res.Success)
	require.Equal(t, domain.ApproachEmbedded, res.Payload.ScaApproach)
	require.Equal(t, domain.StatusReceived, res.Payload.ScaStatus)
	require.Equal(t, "consent-1", res.Payload.ConsentID)
	require.Nil(t, res.Payload.Links)

	c.authority.EXPECT().
		Authenticate(gomock.Any(), "anton.brueckner", "12345", domain.OperationRef{
			OperationID: "consent-1", AuthorisationID: "auth-1", Kind: domain.ObjectTypeConsent,
		}).
		Return(&domain.AuthorityResponse{BearerToken: psuBearer(), ScaMethods: smsAndEmail()}, nil)

	code, res = c.post(t, "/v1/authorisations/psu-authentication", PSUAuthenticationRequest{
		Token: res.Payload.Token, Login: " anton.brueckner ", PIN: "12345",
	}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.StatusPSUIdentified, res.Payload.ScaStatus)
	require.Len(t, res.Payload.ScaMethods, 2)

	c.authority.EXPECT().SelectMethod(gomock.Any(), "consent-1", "auth-1", "sms-1").
		Return(&domain.AuthorityResponse{ScaStatus: domain.StatusScaMethodSelected}, nil)

	code, res = c.post(t, "/v1/authorisations/sca-method", SelectMethodRequest{Token: res.Payload.Token, MethodID: "sms-1"}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.StatusScaMethodSelected, res.Payload.ScaStatus)
	require.Equal(t, "sms-1", res.Payload.ChosenScaMethod)
	selected := res.Payload.Token

	t.Run("wrong code keeps the caller's token usable", func(t *testing.T) {
		c.authority.EXPECT().VerifyCode(gomock.Any(), "consent-1", "auth-1", "000000").
			Return(&domain.AuthorityResponse{ScaStatus: domain.StatusScaMethodSelected, PsuMessage: "wrong code"}, nil)

		code, res := c.post(t, "/v1/authorisations/code", CodeRequest{Token: selected, Code: "000000"}, nil)
		require.Equal(t, http.StatusUnauthorized, code)
		require.False(t, res.Success)
		require.Equal(t, "psu_credentials_invalid", res.Error.Code)
		require.Equal(t, "wrong code", res.Error.Message)
		require.Empty(t, res.Payload.Token)
	})

	c.authority.EXPECT().VerifyCode(gomock.Any(), "consent-1", "auth-1", "123456").
		Return(&domain.AuthorityResponse{ScaStatus: domain.StatusFinalised}, nil)

	code, res = c.post(t, "/v1/authorisations/code", CodeRequest{Token: selected, Code: "123456"}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.StatusFinalised, res.Payload.ScaStatus)
	require.Equal(t, domain.ConsentValid, res.Payload.ConsentStatus)

	t.Run("status reads the final token", func(t *testing.T) {
		code, st := c.post(t, "/v1/authorisations/status", TokenRequest{Token: res.Payload.Token}, nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, domain.StatusFinalised, st.Payload.ScaStatus)
	})

	t.Run("an older token of a closed authorisation is refused", func(t *testing.T) {
		code, res := c.post(t, "/v1/authorisations/code", CodeRequest{Token: selected, Code: "123456"}, nil)
		require.Equal(t, http.StatusConflict, code)
		require.Equal(t, "illegal_transition", res.Error.Code)
	})
}

func TestPaymentRedirectFlow(t *testing.T) {
	t.Parallel()
	c := newConnector(t)

	c.authority.EXPECT().
		CreatePayment(gomock.Any(), gomock.AssignableToTypeOf(domain.PaymentRequest{})).
		DoAndReturn(func(_ context.Context, req domain.PaymentRequest) (*domain.AuthorityResponse, error) {
			require.Equal(t, "sepa-credit-transfers", req.PaymentProduct)
			return &domain.AuthorityResponse{OperationID: "pay-1", AuthorisationID: "auth-2", TransactionStatus: domain.TxReceived}, nil
		})

	code, res := c.post(t, "/v1/payments/sepa-credit-transfers", domain.PaymentRequest{
		DebtorIBAN: "DE89370400440532013000", CreditorIBAN: "DE75512108001245126199",
		CreditorName: "Merchant", Amount: "12.50", Currency: "EUR",
	}, map[string]string{approach.HeaderRedirectPreferred: "true"})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, domain.ApproachRedirect, res.Payload.ScaApproach)
	require.Equal(t, "pay-1", res.Payload.PaymentID)
	require.Equal(t, domain.TxReceived, res.Payload.TransactionStatus)
	require.NotNil(t, res.Payload.Links)
	require.Equal(t, "https://aspsp/pis?p=enc-pay-1&r=auth-2", res.Payload.Links.ScaRedirect)
	require.Equal(t, "https://aspsp/cancel?p=enc-pay-1&r=auth-2", res.Payload.Links.StartCancelling)

	c.authority.EXPECT().Authenticate(gomock.Any(), "max.musterman", "12345", gomock.Any()).
		Return(&domain.AuthorityResponse{BearerToken: psuBearer(), AuthConfirmationCode: "conf-1"}, nil)

	code, res = c.post(t, "/v1/authorisations/psu-authentication", PSUAuthenticationRequest{
		Token: res.Payload.Token, Login: "max.musterman", PIN: "12345",
	}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.StatusPSUAuthenticated, res.Payload.ScaStatus)

	c.authority.EXPECT().VerifyConfirmationCode(gomock.Any(), "pay-1", "auth-2", "conf-1").
		Return(&domain.ConfirmationResult{Success: true, TransactionStatus: domain.TxAcceptedTechnical}, nil)

	code, res = c.post(t, "/v1/authorisations/confirmation", ConfirmationRequest{Token: res.Payload.Token, Code: "conf-1"},
		map[string]string{approach.HeaderRedirectPreferred: "true"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.StatusFinalised, res.Payload.ScaStatus)
	require.Equal(t, domain.TxAcceptedTechnical, res.Payload.TransactionStatus)
}

func TestOAuthPreStep(t *testing.T) {
	t.Parallel()

	t.Run("no bearer asks for one", func(t *testing.T) {
		c := newConnector(t)

		code, res := c.post(t, "/v1/consents", domain.ConsentRequest{PSUID: "anton.brueckner"},
			map[string]string{approach.DefaultModeHeader: "pre-step"})
		require.Equal(t, http.StatusUnauthorized, code)
		require.False(t, res.Success)
		require.Equal(t, codeOAuthTokenRequired, res.Error.Code)
		require.Equal(t, "https://idp/oauth/server", res.Error.ScaOAuth)
	})

	t.Run("bearer authorises the new consent", func(t *testing.T) {
		c := newConnector(t)

		c.authority.EXPECT().CreateConsent(gomock.Any(), gomock.Any()).
			Return(&domain.AuthorityResponse{OperationID: "consent-7", AuthorisationID: "auth-7"}, nil)
		c.authority.EXPECT().ValidateToken(gomock.Any(), "oauth-at").
			Return(&domain.BearerToken{AccessToken: "oauth-at", TokenType: "Bearer"}, nil)

		code, res := c.post(t, "/v1/consents", domain.ConsentRequest{PSUID: "anton.brueckner"}, map[string]string{
			approach.DefaultModeHeader: "pre-step",
			"Authorization":            "Bearer oauth-at",
		})
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, domain.ApproachOAuthPreStep, res.Payload.ScaApproach)
		require.Equal(t, domain.StatusPSUAuthenticated, res.Payload.ScaStatus)
		require.True(t, strings.HasSuffix(res.Payload.Links.ScaRedirect, "token=oauth-at"), res.Payload.Links.ScaRedirect)
	})

	t.Run("oauth step takes the header bearer", func(t *testing.T) {
		c := newConnector(t)

		c.authority.EXPECT().CreateConsent(gomock.Any(), gomock.Any()).
			Return(&domain.AuthorityResponse{OperationID: "consent-8", AuthorisationID: "auth-8"}, nil)
		_, created := c.post(t, "/v1/consents", domain.ConsentRequest{PSUID: "x"}, nil)

		code, res := c.post(t, "/v1/authorisations/oauth", OAuthRequest{Token: created.Payload.Token}, nil)
		require.Equal(t, http.StatusUnauthorized, code)
		require.Equal(t, codeOAuthTokenRequired, res.Error.Code)

		c.authority.EXPECT().ValidateToken(gomock.Any(), "header-at").
			Return(&domain.BearerToken{AccessToken: "header-at"}, nil)

		code, res = c.post(t, "/v1/authorisations/oauth", OAuthRequest{Token: created.Payload.Token},
			map[string]string{"Authorization": "Bearer header-at"})
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, domain.StatusPSUAuthenticated, res.Payload.ScaStatus)
	})
}

func TestOAuthIntegratedConfirmation(t *testing.T) {
	t.Parallel()

	authenticated := func(t *testing.T) string {
		t.Helper()
		tok, err := codec.EncodeString(&domain.ConsentState{
			Authorization: domain.Authorization{
				OperationID:          "consent-1",
				AuthorisationID:      "auth-1",
				ScaStatus:            domain.StatusPSUAuthenticated,
				BearerToken:          psuBearer(),
				AuthConfirmationCode: "secret-1",
			},
			ConsentID: "consent-1",
		})
		require.NoError(t, err)
		return tok
	}
	integrated := map[string]string{approach.DefaultModeHeader: "integrated"}

	t.Run("matching sca data finalises", func(t *testing.T) {
		c := newConnector(t)
		c.authority.EXPECT().CompleteConfirmation(gomock.Any(), "consent-1", "auth-1", true).
			Return(&domain.ConfirmationResult{Success: true}, nil)

		code, res := c.post(t, "/v1/authorisations/confirmation",
			ConfirmationRequest{Token: authenticated(t), Code: "ignored", ScaData: "secret-1"}, integrated)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, domain.ApproachOAuthIntegrated, res.Payload.ScaApproach)
		require.Equal(t, domain.StatusFinalised, res.Payload.ScaStatus)
		require.Equal(t, domain.ConsentValid, res.Payload.ConsentStatus)
	})

	t.Run("other sca data fails", func(t *testing.T) {
		c := newConnector(t)
		c.authority.EXPECT().CompleteConfirmation(gomock.Any(), "consent-1", "auth-1", false).
			Return(&domain.ConfirmationResult{Success: false}, nil)

		code, res := c.post(t, "/v1/authorisations/confirmation",
			ConfirmationRequest{Token: authenticated(t), Code: "secret-1", ScaData: "guess"}, integrated)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, domain.StatusFailed, res.Payload.ScaStatus)
		require.Equal(t, domain.ConsentRejected, res.Payload.ConsentStatus)
	})
}

func TestLoginAndRevoke(t *testing.T) {
	t.Parallel()
	c := newConnector(t)

	c.authority.EXPECT().Authenticate(gomock.Any(), "anton.brueckner", "12345", domain.OperationRef{Kind: domain.ObjectTypeLogin}).
		Return(&domain.AuthorityResponse{BearerToken: psuBearer()}, nil)

	code, res := c.post(t, "/v1/login", LoginRequest{Login: "anton.brueckner", PIN: "12345"}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.ObjectTypeLogin, res.Payload.ObjectType)
	require.Equal(t, domain.StatusPSUAuthenticated, res.Payload.ScaStatus)

	// a login has nothing to revoke at the authority
	code, refused := c.post(t, "/v1/authorisations/revoke", TokenRequest{Token: res.Payload.Token}, nil)
	require.Equal(t, http.StatusConflict, code)
	require.NotNil(t, refused.Error)
	require.Equal(t, "illegal_transition", refused.Error.Code)

	c.authority.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(&domain.AuthorityResponse{OperationID: "pay-3", AuthorisationID: "auth-3"}, nil)
	_, created := c.post(t, "/v1/payments/instant-sepa-credit-transfers", domain.PaymentRequest{Amount: "1.00", Currency: "EUR"}, nil)

	c.authority.EXPECT().Revoke(gomock.Any(), "pay-3", "auth-3").
		Return(&domain.AuthorityResponse{}, nil)

	code, res = c.post(t, "/v1/authorisations/revoke", TokenRequest{Token: created.Payload.Token}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.StatusFinalised, res.Payload.ScaStatus)
	require.True(t, res.Payload.Revoked)
	require.Equal(t, domain.TxCancelled, res.Payload.TransactionStatus)
}

func TestStepErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		body      any
		status    int
		code      string
		expect    func(a *mocks.MockAuthority)
		technical bool
	}{
		{
			name:   "login without pin",
			path:   "/v1/login",
			body:   LoginRequest{Login: "anton.brueckner"},
			status: http.StatusBadRequest,
			code:   "format_error",
		},
		{
			name:   "unknown body field",
			path:   "/v1/authorisations/status",
			body:   map[string]string{"token": "x", "extra": "y"},
			status: http.StatusBadRequest,
			code:   "format_error",
		},
		{
			name:   "missing token",
			path:   "/v1/authorisations/revoke",
			body:   TokenRequest{},
			status: http.StatusBadRequest,
			code:   "invalid_token",
		},
		{
			name:   "garbage token",
			path:   "/v1/authorisations/status",
			body:   TokenRequest{Token: "!!not-base64!!"},
			status: http.StatusBadRequest,
			code:   "invalid_token",
		},
		{
			name:   "authority down",
			path:   "/v1/consents",
			body:   domain.ConsentRequest{PSUID: "x"},
			status: http.StatusBadGateway,
			code:   "remote_authority_failure",
			expect: func(a *mocks.MockAuthority) {
				a.EXPECT().CreateConsent(gomock.Any(), gomock.Any()).
					Return(nil, &domain.Error{Kind: domain.ErrRemoteAuthority, Message: "ledgers unavailable", Cause: errors.New("dial tcp")})
			},
			technical: true,
		},
		{
			name:   "authority refuses",
			path:   "/v1/payments/sepa-credit-transfers",
			body:   domain.PaymentRequest{Amount: "1.00"},
			status: http.StatusFailedDependency,
			code:   "remote_authority_failure",
			expect: func(a *mocks.MockAuthority) {
				a.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
					Return(nil, &domain.Error{Kind: domain.ErrRemoteAuthority, Message: "currency is required", StatusCode: http.StatusBadRequest})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newConnector(t)
			if tt.expect != nil {
				tt.expect(c.authority)
			}

			code, res := c.post(t, tt.path, tt.body, nil)
			require.Equal(t, tt.status, code)
			require.False(t, res.Success)
			require.Equal(t, tt.code, res.Error.Code)
			require.Equal(t, tt.technical, res.Error.Technical)
		})
	}
}

func TestSystemEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("livez", func(t *testing.T) {
		rec := newConnector(t).get(t, "/livez")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz reports failing checks", func(t *testing.T) {
		c := newConnector(t,
			Check{Name: "ledgers", Fn: func(context.Context) error { return nil }},
			Check{Name: "replay", Fn: func(context.Context) error { return errors.New("redis down") }},
		)
		rec := c.get(t, "/readyz")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var h HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
		require.Equal(t, "degraded", h.Status)
		require.Equal(t, map[string]string{"ledgers": "ok", "replay": "down"}, h.Checks)
	})

	t.Run("metrics count steps", func(t *testing.T) {
		c := newConnector(t)
		_, _ = c.post(t, "/v1/authorisations/status", TokenRequest{Token: "AAAA"}, nil)

		rec := c.get(t, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `scaconnect_transitions_total{operation="status",outcome="invalid_token"} 1`)
	})

	t.Run("swagger doc", func(t *testing.T) {
		rec := newConnector(t).get(t, "/swagger/doc.json")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "/v1/authorisations/confirmation")
	})

	t.Run("steps are POST only", func(t *testing.T) {
		rec := newConnector(t).get(t, "/v1/authorisations/status")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestLinkFailureAfterInitiation(t *testing.T) {
	t.Parallel()
	c := newConnectorWithIDs(t, sealFailure{})

	redirect := map[string]string{approach.HeaderRedirectPreferred: "true"}

	c.authority.EXPECT().CreateConsent(gomock.Any(), gomock.Any()).
		Return(&domain.AuthorityResponse{OperationID: "consent-7", AuthorisationID: "auth-7"}, nil)
	code, res := c.post(t, "/v1/consents", domain.ConsentRequest{Accounts: []string{"DE89370400440532013000"}}, redirect)
	require.Equal(t, http.StatusInternalServerError, code)
	require.False(t, res.Success)
	require.NotNil(t, res.Error)
	require.Equal(t, "sca_link_unavailable", res.Error.Code)
	require.True(t, res.Error.Technical)
	require.Contains(t, res.Error.Message, "consent-7")
	require.Empty(t, res.Payload.Token)

	c.authority.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(&domain.AuthorityResponse{OperationID: "pay-7", AuthorisationID: "auth-8"}, nil)
	code, res = c.post(t, "/v1/payments/sepa-credit-transfers", domain.PaymentRequest{Amount: "1.00", Currency: "EUR"}, redirect)
	require.Equal(t, http.StatusInternalServerError, code)
	require.NotNil(t, res.Error)
	require.Equal(t, "sca_link_unavailable", res.Error.Code)

	// embedded needs no link and is unaffected
	c.authority.EXPECT().CreateConsent(gomock.Any(), gomock.Any()).
		Return(&domain.AuthorityResponse{OperationID: "consent-8", AuthorisationID: "auth-9"}, nil)
	code, _ = c.post(t, "/v1/consents", domain.ConsentRequest{Accounts: []string{"DE89370400440532013000"}},
		map[string]string{approach.HeaderRedirectPreferred: "false"})
	require.Equal(t, http.StatusCreated, code)
}

package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	ledgershttp "github.com/aussiebroadwan/scaconnect/internal/ledgers/http"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/service"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store/drivers/sqlite"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

const issuer = "ledgers-test"

type codeBox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (b *codeBox) Send(_ context.Context, psu domain.PSU, _ domain.ScaMethod, code string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codes[psu.Login] = code
	return nil
}

func (b *codeBox) last(login string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[login]
}

func newLedgers(t *testing.T) (*ledgersdk.Client, *codeBox) {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hasher := cryptox.SecretHasher{Pepper: "test-pepper"}
	fixtures, err := service.LoadFixtures("")
	require.NoError(t, err)
	require.NoError(t, service.Seed(ctx, st, hasher, fixtures))

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: issuer})
	require.NoError(t, err)
	tokens := &service.TokenService{KeyManager: km, Issuer: issuer, AccessTTL: 5 * time.Minute}
	box := &codeBox{codes: map[string]string{}}

	router := ledgershttp.NewRouter(km.KeySet, km.Verifier, issuer, "test", st, slogx.Discard())
	router.SCAService = &service.SCAService{
		Store:  st,
		Tokens: tokens,
		Codes:  &service.CodeService{Issuer: issuer, Sender: box},
		Hasher: hasher,
	}
	router.OAuthService = &service.OAuthService{Store: st, Tokens: tokens, Hasher: hasher, Clients: []string{"scaconnect"}}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return ledgersdk.NewClient(srv.URL), box
}

func apiCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *ledgersdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	return apiErr.Code
}

func TestConsentEmbeddedFlow(t *testing.T) {
	t.Parallel()
	c, box := newLedgers(t)
	ctx := context.Background()

	created, err := c.CreateConsent(ctx, ledgersdk.ConsentRequest{PSUID: "max.musterman", Accounts: []string{"DE89370400440532013000"}})
	require.NoError(t, err)
	require.Equal(t, "RECEIVED", created.ScaStatus)
	require.Equal(t, "RECEIVED", created.ConsentStatus)
	require.Empty(t, created.TransactionStatus)

	login, err := c.Login(ctx, ledgersdk.LoginRequest{
		Login:           "max.musterman",
		PIN:             "12345",
		OperationID:     created.OperationID,
		AuthorisationID: created.AuthorisationID,
		OperationType:   ledgersdk.OperationConsent,
	})
	require.NoError(t, err)
	require.Equal(t, "PSU_IDENTIFIED", login.ScaStatus)
	require.Len(t, login.ScaMethods, 3)
	require.NotNil(t, login.BearerToken)
	require.Equal(t, "Bearer", login.BearerToken.TokenType)
	require.NotEmpty(t, login.AuthConfirmationCode)

	_, err = c.SelectMethod(ctx, created.OperationID, created.AuthorisationID, "sms-max")
	require.ErrorIs(t, err, ledgersdk.ErrInvalidToken)

	psu := c.WithToken(login.BearerToken.AccessToken)
	selected, err := psu.SelectMethod(ctx, created.OperationID, created.AuthorisationID, "sms-max")
	require.NoError(t, err)
	require.Equal(t, "SCA_METHOD_SELECTED", selected.ScaStatus)
	require.Equal(t, domain.MaxScaAttempts, selected.AttemptsLeft)

	wrong, err := psu.VerifyCode(ctx, created.OperationID, created.AuthorisationID, "000000")
	require.NoError(t, err)
	require.Equal(t, "SCA_METHOD_SELECTED", wrong.ScaStatus)
	require.Equal(t, domain.MaxScaAttempts-1, wrong.AttemptsLeft)

	done, err := psu.VerifyCode(ctx, created.OperationID, created.AuthorisationID, box.last("max.musterman"))
	require.NoError(t, err)
	require.Equal(t, "FINALISED", done.ScaStatus)
	require.Equal(t, "VALID", done.ConsentStatus)
	require.False(t, done.PartiallyAuthorised)
	require.Equal(t, jwtx.ScopeFull, done.BearerToken.Scope)
	require.False(t, done.StatusDate.IsZero())

	valid, err := c.ValidateToken(ctx, done.BearerToken.AccessToken)
	require.NoError(t, err)
	require.Positive(t, valid.ExpiresIn)
}

func TestPaymentRedirectFlow(t *testing.T) {
	t.Parallel()
	c, _ := newLedgers(t)
	ctx := context.Background()

	created, err := c.CreatePayment(ctx, "sepa-credit-transfers", ledgersdk.PaymentRequest{
		PSUID:        "erika.mustermann",
		DebtorIBAN:   "DE89370400440532013000",
		CreditorIBAN: "DE02120300000000202051",
		Amount:       "12.50",
		Currency:     "EUR",
	})
	require.NoError(t, err)
	require.Equal(t, "RCVD", created.TransactionStatus)

	login, err := c.Login(ctx, ledgersdk.LoginRequest{
		Login:           "erika.mustermann",
		PIN:             "12345",
		OperationID:     created.OperationID,
		AuthorisationID: created.AuthorisationID,
	})
	require.NoError(t, err)
	require.Equal(t, "PSU_AUTHENTICATED", login.ScaStatus)

	confirmed, err := c.VerifyConfirmation(ctx, created.OperationID, created.AuthorisationID, login.AuthConfirmationCode)
	require.NoError(t, err)
	require.True(t, confirmed.Success)
	require.Equal(t, "FINALISED", confirmed.ScaStatus)
	require.Equal(t, "ACTC", confirmed.TransactionStatus)
}

func TestStepErrors(t *testing.T) {
	t.Parallel()
	c, _ := newLedgers(t)
	ctx := context.Background()

	t.Run("wrong pin", func(t *testing.T) {
		_, err := c.Login(ctx, ledgersdk.LoginRequest{Login: "max.musterman", PIN: "nope"})
		require.ErrorIs(t, err, ledgersdk.ErrPSUCredentialsInvalid)
	})

	t.Run("plain login", func(t *testing.T) {
		res, err := c.Login(ctx, ledgersdk.LoginRequest{Login: "max.musterman", PIN: "12345", OperationType: ledgersdk.OperationLogin})
		require.NoError(t, err)
		require.Equal(t, "PSU_AUTHENTICATED", res.ScaStatus)
		require.Equal(t, jwtx.ScopeSCA, res.BearerToken.Scope)
	})

	t.Run("unknown authorisation", func(t *testing.T) {
		_, err := c.Revoke(ctx, "op", "missing")
		require.ErrorIs(t, err, ledgersdk.ErrNotFound)
	})

	t.Run("payment without amount", func(t *testing.T) {
		_, err := c.CreatePayment(ctx, "sepa-credit-transfers", ledgersdk.PaymentRequest{PSUID: "max.musterman"})
		require.Equal(t, ledgersdk.ErrorCodeInvalidRequest, apiCode(t, err))
	})

	t.Run("revoke twice", func(t *testing.T) {
		created, err := c.CreateConsent(ctx, ledgersdk.ConsentRequest{PSUID: "max.musterman"})
		require.NoError(t, err)

		res, err := c.Revoke(ctx, created.OperationID, created.AuthorisationID)
		require.NoError(t, err)
		require.Equal(t, "REVOKED_BY_PSU", res.ConsentStatus)

		_, err = c.Revoke(ctx, created.OperationID, created.AuthorisationID)
		require.ErrorIs(t, err, ledgersdk.ErrIllegalState)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := c.ValidateToken(ctx, "garbage")
		require.ErrorIs(t, err, ledgersdk.ErrInvalidToken)
	})
}

func TestMultilevelOverHTTP(t *testing.T) {
	t.Parallel()
	c, box := newLedgers(t)
	ctx := context.Background()

	created, err := c.CreateConsent(ctx, ledgersdk.ConsentRequest{RequiredApprovals: 2})
	require.NoError(t, err)

	first, err := c.Login(ctx, ledgersdk.LoginRequest{Login: "anton.brueckner", PIN: "12345", OperationID: created.OperationID, AuthorisationID: created.AuthorisationID})
	require.NoError(t, err)
	require.Equal(t, "SCA_METHOD_SELECTED", first.ScaStatus)

	partial, err := c.WithToken(first.BearerToken.AccessToken).VerifyCode(ctx, created.OperationID, created.AuthorisationID, box.last("anton.brueckner"))
	require.NoError(t, err)
	require.True(t, partial.PartiallyAuthorised)
	require.Equal(t, "PARTIALLY_AUTHORISED", partial.ConsentStatus)

	next, err := c.StartAuthorisation(ctx, created.OperationID)
	require.NoError(t, err)
	require.Equal(t, "RECEIVED", next.ScaStatus)
	require.NotEqual(t, created.AuthorisationID, next.AuthorisationID)
}

func TestOAuthOverHTTP(t *testing.T) {
	t.Parallel()
	c, _ := newLedgers(t)
	ctx := context.Background()

	params := ledgersdk.OAuthParams{
		ClientID:    "scaconnect",
		RedirectURI: "https://tpp.example/cb",
		State:       "s1",
		Login:       "anton.brueckner",
		PIN:         "12345",
	}

	tok, err := c.AuthorizeAndExchange(ctx, params)
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)
	require.Equal(t, jwtx.ScopeSCA, tok.Scope)

	bad := params
	bad.PIN = "00000"
	_, err = c.AuthorizeAndExchange(ctx, bad)
	require.ErrorIs(t, err, ledgersdk.ErrPSUCredentialsInvalid)

	_, err = c.Exchange(ctx, params, "made-up", "verifier")
	require.Equal(t, ledgersdk.ErrorCodeInvalidGrant, apiCode(t, err))

	info, err := c.GetOAuthServer(ctx)
	require.NoError(t, err)
	require.Equal(t, issuer, info.Issuer)
	require.Contains(t, info.TokenEndpoint, "/oauth/token")
	require.Contains(t, info.CodeChallengeMethodsSupported, "S256")
}

func TestSystemEndpoints(t *testing.T) {
	t.Parallel()
	c, _ := newLedgers(t)
	ctx := context.Background()

	live, err := c.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := c.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	jwks, err := c.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0]["kty"])

	resp, err := http.Get(c.BaseURL + "/v1/consents")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/internal/connector/bearer"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
)

func newAuthority(t *testing.T, h http.HandlerFunc) *Authority {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second, nil)
}

func TestScopedBearerIsSent(t *testing.T) {
	t.Parallel()

	a := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer psu-at", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(ledgersdk.SCAResponse{
			OperationID:     "op-1",
			AuthorisationID: "au-1",
			ScaStatus:       "SCA_METHOD_SELECTED",
			ScaMethods:      []ledgersdk.ScaMethod{{ID: "sms-1", Type: "SMS_OTP"}},
		})
	})

	ctx, release := bearer.Scope(context.Background(), "psu-at")
	defer release()

	res, err := a.SelectMethod(ctx, "op-1", "au-1", "sms-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusScaMethodSelected, res.ScaStatus)
	require.Equal(t, []domain.ScaMethod{{ID: "sms-1", Type: domain.MethodSMS}}, res.ScaMethods)
}

func TestNoBearerWithoutScope(t *testing.T) {
	t.Parallel()

	a := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))

		var req ledgersdk.ConsentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "2026-12-31", req.ValidUntil)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ledgersdk.SCAResponse{OperationID: "op-1", AuthorisationID: "au-1", ScaStatus: "RECEIVED"})
	})

	res, err := a.CreateConsent(context.Background(), domain.ConsentRequest{
		PSUID:      "anton.brueckner",
		ValidUntil: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "op-1", res.OperationID)
	require.Nil(t, res.BearerToken)
}

func TestAuthenticateBindsOperation(t *testing.T) {
	t.Parallel()

	a := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		var req ledgersdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, ledgersdk.OperationPayment, req.OperationType)
		require.Equal(t, "op-1", req.OperationID)

		_ = json.NewEncoder(w).Encode(ledgersdk.SCAResponse{
			ScaStatus:   "PSU_IDENTIFIED",
			BearerToken: &ledgersdk.BearerToken{AccessToken: "psu-at", TokenType: "Bearer", ExpiresIn: 300},
		})
	})

	res, err := a.Authenticate(context.Background(), "anton", "12345", domain.OperationRef{
		OperationID: "op-1", AuthorisationID: "au-1", Kind: domain.ObjectTypePayment,
	})
	require.NoError(t, err)
	require.Equal(t, "psu-at", res.BearerToken.AccessToken)
	require.Equal(t, 300, res.BearerToken.ExpiresIn)
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		status    int
		code      string
		kind      error
		technical bool
	}{
		{"wrong pin", http.StatusUnauthorized, ledgersdk.ErrorCodePSUCredentialsInvalid, domain.ErrPSUCredentialsInvalid, false},
		{"illegal state", http.StatusConflict, ledgersdk.ErrorCodeIllegalState, domain.ErrIllegalTransition, false},
		{"not found is logical", http.StatusNotFound, ledgersdk.ErrorCodeNotFound, domain.ErrRemoteAuthority, false},
		{"server error is technical", http.StatusInternalServerError, ledgersdk.ErrorCodeServerError, domain.ErrRemoteAuthority, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
				ledgersdk.NewAPIError(tc.status, tc.code, "ledgers says no").WriteError(w)
			})

			_, err := a.VerifyCode(context.Background(), "op", "au", "1")
			require.ErrorIs(t, err, tc.kind)

			de := domain.AsError(err)
			require.Equal(t, "ledgers says no", de.Message)
			require.Equal(t, tc.status, de.StatusCode)
			require.Equal(t, tc.technical, de.Technical())
		})
	}

	t.Run("unreachable is technical", func(t *testing.T) {
		a := New("http://127.0.0.1:1", 200*time.Millisecond, nil)
		_, err := a.Revoke(context.Background(), "op", "au")
		require.ErrorIs(t, err, domain.ErrRemoteAuthority)
		require.True(t, domain.AsError(err).Technical())
	})

	t.Run("invalid token is a credentials error", func(t *testing.T) {
		a := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
			ledgersdk.ErrInvalidToken.WriteError(w)
		})
		_, err := a.ValidateToken(context.Background(), "stale")
		require.ErrorIs(t, err, domain.ErrPSUCredentialsInvalid)
	})
}

func TestConfirmation(t *testing.T) {
	t.Parallel()

	a := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/sca/op-1/authorisations/au-1/confirmation/complete", r.URL.Path)

		var req ledgersdk.CompleteConfirmationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Confirmed)

		_ = json.NewEncoder(w).Encode(ledgersdk.ConfirmationResponse{Success: true, TransactionStatus: "ACSC"})
	})

	res, err := a.CompleteConfirmation(context.Background(), "op-1", "au-1", true)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, domain.TxAcceptedCompleted, res.TransactionStatus)
}

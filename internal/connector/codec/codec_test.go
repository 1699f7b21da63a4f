package codec_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/connector/codec"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/stretchr/testify/require"
)

var statusDate = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func paymentState() *domain.PaymentState {
	return &domain.PaymentState{
		Authorization: domain.Authorization{
			OperationID:     "01JP0PAYMENT",
			AuthorisationID: "01JP0AUTH",
			ScaStatus:       domain.StatusPSUIdentified,
			BearerToken: &domain.BearerToken{
				AccessToken: "eyJhbGciOi...",
				TokenType:   "Bearer",
				ExpiresIn:   900,
			},
			ScaMethods: []domain.ScaMethod{
				{ID: "m-email", Type: domain.MethodEmail, Description: "a***@example.com"},
				{ID: "m-app", Type: domain.MethodAppOTP},
			},
			StatusDate: statusDate,
		},
		PaymentID:         "01JP0PAYMENT",
		PaymentProduct:    "sepa-credit-transfers",
		TransactionStatus: domain.TxReceived,
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	states := []domain.State{
		paymentState(),
		&domain.ConsentState{
			Authorization: domain.Authorization{
				OperationID:          "01JP0CONSENT",
				AuthorisationID:      "01JP0AUTH2",
				ScaStatus:            domain.StatusFinalised,
				ChosenScaMethod:      "m-sms",
				ScaMethods:           []domain.ScaMethod{{ID: "m-sms", Type: domain.MethodSMS}},
				AuthConfirmationCode: "c0nf1rm",
				StatusDate:           statusDate,
			},
			ConsentID:     "01JP0CONSENT",
			ConsentStatus: domain.ConsentValid,
		},
		&domain.LoginState{Authorization: domain.Authorization{ScaStatus: domain.StatusPSUAuthenticated, StatusDate: statusDate}},
	}

	for _, s := range states {
		t.Run(string(s.Kind()), func(t *testing.T) {
			data, err := codec.Encode(s)
			require.NoError(t, err)

			got, err := codec.Decode(data)
			require.NoError(t, err)
			require.Equal(t, s, got)

			text, err := codec.EncodeString(s)
			require.NoError(t, err)
			got, err = codec.DecodeString(text)
			require.NoError(t, err)
			require.Equal(t, s, got)
		})
	}
}

func TestDiscriminatorIsWritten(t *testing.T) {
	t.Parallel()

	data, err := codec.Encode(paymentState())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "SCAPaymentResponseTO", doc["objectType"])
	require.Equal(t, "PSU_IDENTIFIED", doc["scaStatus"])
	require.Equal(t, "01JP0PAYMENT", doc["paymentId"])
}

func TestEnvelopeTolerance(t *testing.T) {
	t.Parallel()

	data, err := codec.Encode(paymentState())
	require.NoError(t, err)

	wrapped := []byte(`{"state":` + string(data) + `}`)
	got, err := codec.Decode(wrapped)
	require.NoError(t, err)
	require.Equal(t, paymentState(), got)

	// only one level is peeled
	twice := []byte(`{"outer":` + string(wrapped) + `}`)
	_, err = codec.Decode(twice)
	require.ErrorIs(t, err, domain.ErrUnknownStateVariant)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"nil", nil, domain.ErrInvalidToken},
		{"blank", []byte("   "), domain.ErrInvalidToken},
		{"json null", []byte("null"), domain.ErrInvalidToken},
		{"not json", []byte("{oops"), domain.ErrInvalidToken},
		{"array", []byte(`[1,2]`), domain.ErrInvalidToken},
		{"missing discriminator", []byte(`{"scaStatus":"RECEIVED","statusDate":"2026-01-01T00:00:00Z"}`), domain.ErrUnknownStateVariant},
		{"unknown discriminator", []byte(`{"objectType":"SCAFooTO","scaStatus":"RECEIVED"}`), domain.ErrUnknownStateVariant},
		{"non string discriminator", []byte(`{"objectType":7,"scaStatus":"RECEIVED"}`), domain.ErrUnknownStateVariant},
		{"bad field type", []byte(`{"objectType":"SCALoginResponseTO","scaStatus":42}`), domain.ErrInvalidToken},
		{"unknown status", []byte(`{"objectType":"SCALoginResponseTO","scaStatus":"ALMOST_DONE"}`), domain.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("text token", func(t *testing.T) {
		_, err := codec.DecodeString("")
		require.ErrorIs(t, err, domain.ErrInvalidToken)

		_, err = codec.DecodeString("***")
		require.ErrorIs(t, err, domain.ErrInvalidToken)

		padded := base64.URLEncoding.EncodeToString([]byte(`{"objectType":"SCALoginResponseTO","scaStatus":"RECEIVED"}`))
		s, err := codec.DecodeString(padded)
		require.NoError(t, err)
		require.IsType(t, &domain.LoginState{}, s)
	})
}

func TestDecodeAs(t *testing.T) {
	t.Parallel()

	data, err := codec.Encode(paymentState())
	require.NoError(t, err)

	p, err := codec.DecodeAs[domain.PaymentState](data)
	require.NoError(t, err)
	require.Equal(t, "sepa-credit-transfers", p.PaymentProduct)

	// the discriminator is ignored on this path
	c, err := codec.DecodeAs[domain.ConsentState]([]byte(`{"scaStatus":"RECEIVED","consentId":"c1"}`))
	require.NoError(t, err)
	require.Equal(t, "c1", c.ConsentID)

	_, err = codec.DecodeAs[domain.ConsentState](nil)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/internal/connector/codec"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

func sampleToken(t *testing.T) string {
	t.Helper()
	token, err := codec.EncodeString(&domain.ConsentState{
		Authorization: domain.Authorization{
			OperationID:          "op-1",
			AuthorisationID:      "auth-1",
			ScaStatus:            domain.StatusPSUAuthenticated,
			BearerToken:          &domain.BearerToken{AccessToken: "secret-at"},
			AuthConfirmationCode: "secret-code",
		},
		ConsentID: "consent-1",
	})
	require.NoError(t, err)
	return token
}

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenDecodeRedacts(t *testing.T) {
	out, err := runRoot(t, "", "token", "decode", sampleToken(t))
	require.NoError(t, err)

	assert.Contains(t, out, `"objectType": "SCAConsentResponseTO"`)
	assert.Contains(t, out, `"consentId": "consent-1"`)
	assert.Contains(t, out, `"accessToken": "`+slogx.Redacted+`"`)
	assert.Contains(t, out, `"authConfirmationCode": "`+slogx.Redacted+`"`)
	assert.NotContains(t, out, `\u00`, "markers print verbatim")
	assert.NotContains(t, out, "secret-at")
	assert.NotContains(t, out, "secret-code")
}

func TestTokenDecodeRevealFromStdin(t *testing.T) {
	out, err := runRoot(t, sampleToken(t)+"\n", "token", "decode", "--reveal")
	require.NoError(t, err)

	assert.Contains(t, out, "secret-at")
	assert.Contains(t, out, "secret-code")
}

func TestTokenDecodeRejectsGarbage(t *testing.T) {
	_, err := runRoot(t, "", "token", "decode", "!!not-a-token!!")
	require.Error(t, err)

	_, err = runRoot(t, "", "token", "decode")
	require.Error(t, err)
}

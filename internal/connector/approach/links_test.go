package approach

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
)

// plainIDs makes rendered links predictable.
type plainIDs struct{ err error }

func (p plainIDs) EncryptConsentID(id string) (string, error) { return "enc-" + id, p.err }
func (p plainIDs) EncryptPaymentID(id string) (string, error) { return "enc-" + id, p.err }

func TestLinks(t *testing.T) {
	t.Parallel()

	rs := NewResolver(Config{Default: domain.ApproachRedirect, Profile: testProfile()})

	t.Run("redirect consent link", func(t *testing.T) {
		link, err := rs.Resolve(request(nil)).ConsentLink(plainIDs{}, "c-1", "r-1")
		require.NoError(t, err)
		require.Equal(t, "https://aspsp/ais?c=enc-c-1&r=r-1", link)
	})

	t.Run("integrated payment link uses the oauth url", func(t *testing.T) {
		res := rs.Resolve(request(map[string]string{"X-OAUTH-PREFERRED": "integrated"}))
		link, err := res.PaymentLink(plainIDs{}, "p-1", "r-2")
		require.NoError(t, err)
		require.Equal(t, "https://idp/oauth/server?paymentId=enc-p-1&redirectId=r-2", link)
	})

	t.Run("cancellation link", func(t *testing.T) {
		link, err := rs.Resolve(request(nil)).CancellationLink(plainIDs{}, "p-1", "r-3")
		require.NoError(t, err)
		require.Equal(t, "https://aspsp/pis-cancel?p=enc-p-1", link)
	})

	t.Run("no placeholder means no encryption", func(t *testing.T) {
		link, err := rs.Resolve(request(nil)).PaymentLink(plainIDs{err: errors.New("boom")}, "p-1", "r-4")
		require.NoError(t, err)
		require.Equal(t, "https://aspsp/pis/r-4", link)
	})

	t.Run("encryption failure", func(t *testing.T) {
		_, err := rs.Resolve(request(nil)).ConsentLink(plainIDs{err: errors.New("boom")}, "c-1", "r-1")
		require.ErrorContains(t, err, "boom")
	})
}

func TestSealedIDs(t *testing.T) {
	t.Parallel()

	sealer, err := cryptox.NewSealer([]byte("link-secret"))
	require.NoError(t, err)
	ids := SealedIDs{Sealer: sealer}

	enc, err := ids.EncryptConsentID("consent-42")
	require.NoError(t, err)
	require.NotContains(t, enc, "consent-42")
	require.False(t, strings.ContainsAny(enc, "+/="), "must be query safe")

	got, err := ids.Decrypt(enc)
	require.NoError(t, err)
	require.Equal(t, "consent-42", got)

	_, err = SealedIDs{}.EncryptPaymentID("x")
	require.Error(t, err)
}

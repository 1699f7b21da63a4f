package approach

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
)

// IDEncrypter hides consent and payment ids before they travel in a PSU
// facing link.
type IDEncrypter interface {
	EncryptConsentID(consentID string) (string, error)
	EncryptPaymentID(paymentID string) (string, error)
}

// SealedIDs encrypts ids with a cryptox.Sealer. The output is base64url and
// safe in a query string.
type SealedIDs struct {
	Sealer *cryptox.Sealer
}

func (s SealedIDs) EncryptConsentID(id string) (string, error) { return s.seal(id) }
func (s SealedIDs) EncryptPaymentID(id string) (string, error) { return s.seal(id) }

// Decrypt reverses either Encrypt method.
func (s SealedIDs) Decrypt(encrypted string) (string, error) {
	if s.Sealer == nil {
		return "", errors.New("approach: no sealer configured")
	}
	return s.Sealer.OpenString(encrypted)
}

func (s SealedIDs) seal(id string) (string, error) {
	if s.Sealer == nil {
		return "", errors.New("approach: no sealer configured")
	}
	return s.Sealer.SealString(id)
}

// ConsentLink renders the link that sends the PSU to authorise a consent:
// the OAuth link under OAUTH_INTEGRATED, the AIS redirect otherwise.
func (r Resolution) ConsentLink(enc IDEncrypter, consentID, redirectID string) (string, error) {
	link := r.Links.AISRedirectURL
	if r.Links.OAuthAISURL != "" {
		link = r.Links.OAuthAISURL
	}
	return render(link, redirectID, PlaceholderEncryptedConsent, func() (string, error) {
		return enc.EncryptConsentID(consentID)
	})
}

// PaymentLink renders the payment initiation link.
func (r Resolution) PaymentLink(enc IDEncrypter, paymentID, redirectID string) (string, error) {
	link := r.Links.PISRedirectURL
	if r.Links.OAuthPISURL != "" {
		link = r.Links.OAuthPISURL
	}
	return render(link, redirectID, PlaceholderEncryptedPayment, func() (string, error) {
		return enc.EncryptPaymentID(paymentID)
	})
}

// CancellationLink renders the payment cancellation link.
func (r Resolution) CancellationLink(enc IDEncrypter, paymentID, redirectID string) (string, error) {
	return render(r.Links.PISCancellationRedirectURL, redirectID, PlaceholderEncryptedPayment, func() (string, error) {
		return enc.EncryptPaymentID(paymentID)
	})
}

// render fills the placeholders of link. The id is only encrypted when the
// link asks for it.
func render(link, redirectID, placeholder string, encrypt func() (string, error)) (string, error) {
	if link == "" {
		return "", nil
	}

	pairs := []string{PlaceholderRedirectID, redirectID}
	if strings.Contains(link, placeholder) {
		v, err := encrypt()
		if err != nil {
			return "", fmt.Errorf("encrypt id: %w", err)
		}
		pairs = append(pairs, placeholder, v)
	}
	return strings.NewReplacer(pairs...).Replace(link), nil
}

package approach

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
)

// Placeholders understood in redirect URLs and suffix templates.
const (
	PlaceholderRedirectID        = "{redirect-id}"
	PlaceholderEncryptedConsent  = "{encrypted-consent-id}"
	PlaceholderEncryptedPayment  = "{encrypted-payment-id}"
	PlaceholderPreStepToken      = "{token}"
	defaultAISIntegratedSuffix   = "?consentId=" + PlaceholderEncryptedConsent + "&redirectId=" + PlaceholderRedirectID
	defaultPISIntegratedSuffix   = "?paymentId=" + PlaceholderEncryptedPayment + "&redirectId=" + PlaceholderRedirectID
	defaultPreStepSuffixTemplate = "token=" + PlaceholderPreStepToken
)

// Profile is the ASPSP profile: which approaches are offered and where the
// PSU is sent for each of them.
type Profile struct {
	ScaApproaches []domain.ScaApproach `yaml:"sca_approaches"`

	AISRedirectURL             string `yaml:"ais_redirect_url"`
	PISRedirectURL             string `yaml:"pis_redirect_url"`
	PISCancellationRedirectURL string `yaml:"pis_cancellation_redirect_url"`

	OAuthConfigurationURL string `yaml:"oauth_configuration_url"`

	Suffixes Suffixes `yaml:"suffixes"`
}

// Suffixes are the OAuth link templates appended to profile URLs.
type Suffixes struct {
	AISIntegrated string `yaml:"ais_integrated"`
	PISIntegrated string `yaml:"pis_integrated"`
	AISPreStep    string `yaml:"ais_pre_step"`
	PISPreStep    string `yaml:"pis_pre_step"`
}

// DefaultProfile offers every approach against a local ASPSP UI.
func DefaultProfile() Profile {
	return Profile{
		ScaApproaches: []domain.ScaApproach{
			domain.ApproachEmbedded,
			domain.ApproachRedirect,
			domain.ApproachOAuthPreStep,
			domain.ApproachOAuthIntegrated,
		},
		AISRedirectURL:             "http://localhost:4400/account-information/login?encryptedConsentId=" + PlaceholderEncryptedConsent + "&redirectId=" + PlaceholderRedirectID,
		PISRedirectURL:             "http://localhost:4400/payment-initiation/login?paymentId=" + PlaceholderEncryptedPayment + "&redirectId=" + PlaceholderRedirectID,
		PISCancellationRedirectURL: "http://localhost:4400/payment-cancellation/login?paymentId=" + PlaceholderEncryptedPayment + "&redirectId=" + PlaceholderRedirectID,
		OAuthConfigurationURL:      "http://localhost:8081/oauth/server",
		Suffixes:                   defaultSuffixes(),
	}
}

func defaultSuffixes() Suffixes {
	return Suffixes{
		AISIntegrated: defaultAISIntegratedSuffix,
		PISIntegrated: defaultPISIntegratedSuffix,
		AISPreStep:    defaultPreStepSuffixTemplate,
		PISPreStep:    defaultPreStepSuffixTemplate,
	}
}

// LoadProfile reads a YAML profile over the defaults. An empty path or a
// missing file yields DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the approach list and the URLs the approaches need.
func (p Profile) Validate() error {
	if len(p.ScaApproaches) == 0 {
		return errors.New("no sca_approaches configured")
	}
	for i, a := range p.ScaApproaches {
		parsed, ok := domain.ParseApproach(string(a))
		if !ok {
			return fmt.Errorf("unknown sca approach %q", a)
		}
		p.ScaApproaches[i] = parsed
	}
	if p.Enabled(domain.ApproachOAuthIntegrated) && p.OAuthConfigurationURL == "" {
		return errors.New("oauth_configuration_url is required for OAUTH_INTEGRATED")
	}
	if (p.Enabled(domain.ApproachRedirect) || p.Enabled(domain.ApproachOAuthPreStep)) &&
		(p.AISRedirectURL == "" || p.PISRedirectURL == "") {
		return errors.New("ais_redirect_url and pis_redirect_url are required for redirect approaches")
	}
	return nil
}

// Enabled reports whether the profile offers a.
func (p Profile) Enabled(a domain.ScaApproach) bool {
	for _, have := range p.ScaApproaches {
		if have == a {
			return true
		}
	}
	return false
}

// Package approach decides per request which SCA approach applies and
// rewrites the profile's redirect links to match it.
package approach

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
)

const (
	// DefaultModeHeader carries the TPP's OAuth preference.
	DefaultModeHeader = "X-OAUTH-PREFERRED"
	// HeaderRedirectPreferred is the XS2A redirect preference header.
	HeaderRedirectPreferred = "TPP-Redirect-Preferred"

	modePreStep    = "pre-step"
	modeIntegrated = "integrated"
)

// Config configures a Resolver.
type Config struct {
	// ModeHeader defaults to DefaultModeHeader.
	ModeHeader string
	// Default applies when the request expresses no usable preference.
	Default domain.ScaApproach
	Profile Profile
}

// Resolver derives a Resolution from each request. It keeps no per-request
// state and is safe for concurrent use.
type Resolver struct {
	header  string
	def     domain.ScaApproach
	profile Profile
}

// NewResolver builds a resolver. An unset or disabled default falls back to
// the profile's first approach.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		header:  cfg.ModeHeader,
		def:     cfg.Default,
		profile: cfg.Profile,
	}
	if r.header == "" {
		r.header = DefaultModeHeader
	}
	if len(r.profile.ScaApproaches) == 0 {
		r.profile = DefaultProfile()
	}
	if r.def == "" || !r.profile.Enabled(r.def) {
		r.def = r.profile.ScaApproaches[0]
	}
	return r
}

// Links are the profile URLs after approach specific rewriting. Placeholders
// are still present; see Resolution.ConsentLink and friends.
type Links struct {
	AISRedirectURL             string
	PISRedirectURL             string
	PISCancellationRedirectURL string

	// OAuth configuration URL with the AIS or PIS suffix, set for
	// OAUTH_INTEGRATED only.
	OAuthAISURL string
	OAuthPISURL string
}

// Resolution is the outcome for one request.
type Resolution struct {
	Approach domain.ScaApproach
	Links    Links

	// PreStepToken is the inbound bearer under OAUTH_PRE_STEP.
	PreStepToken string
	// TokenMissing is set when OAUTH_PRE_STEP applies but the request has
	// no bearer; the caller should answer 401 with OAuthURL.
	TokenMissing bool
	// OAuthURL is where a PSU obtains a token.
	OAuthURL string
}

// Approach returns only the approach for r.
func (rs *Resolver) Approach(r *http.Request) domain.ScaApproach {
	if mode := strings.ToLower(strings.TrimSpace(r.Header.Get(rs.header))); mode != "" {
		switch mode {
		case modePreStep:
			return rs.enabledOrDefault(domain.ApproachOAuthPreStep)
		case modeIntegrated:
			return rs.enabledOrDefault(domain.ApproachOAuthIntegrated)
		}
	}

	switch strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderRedirectPreferred))) {
	case "true":
		return rs.enabledOrDefault(domain.ApproachRedirect)
	case "false":
		return rs.enabledOrDefault(domain.ApproachEmbedded)
	}
	return rs.def
}

// Resolve picks the approach for r and rewrites the profile links for it.
func (rs *Resolver) Resolve(r *http.Request) Resolution {
	p := rs.profile
	res := Resolution{
		Approach: rs.Approach(r),
		Links: Links{
			AISRedirectURL:             p.AISRedirectURL,
			PISRedirectURL:             p.PISRedirectURL,
			PISCancellationRedirectURL: p.PISCancellationRedirectURL,
		},
		OAuthURL: p.OAuthConfigurationURL,
	}

	switch res.Approach {
	case domain.ApproachOAuthIntegrated:
		res.Links.OAuthAISURL = p.OAuthConfigurationURL + p.Suffixes.AISIntegrated
		res.Links.OAuthPISURL = p.OAuthConfigurationURL + p.Suffixes.PISIntegrated

	case domain.ApproachOAuthPreStep:
		tok, ok := httpx.BearerToken(r)
		if !ok {
			res.TokenMissing = true
			return res
		}
		res.PreStepToken = tok
		res.Links.AISRedirectURL = appendSuffix(p.AISRedirectURL, p.Suffixes.AISPreStep, tok)
		res.Links.PISRedirectURL = appendSuffix(p.PISRedirectURL, p.Suffixes.PISPreStep, tok)
		res.Links.PISCancellationRedirectURL = appendSuffix(p.PISCancellationRedirectURL, p.Suffixes.PISPreStep, tok)
	}
	return res
}

func (rs *Resolver) enabledOrDefault(a domain.ScaApproach) domain.ScaApproach {
	if rs.profile.Enabled(a) {
		return a
	}
	return rs.def
}

// appendSuffix adds the rendered pre-step template as a query parameter.
func appendSuffix(link, template, token string) string {
	if link == "" {
		return ""
	}
	suffix := strings.TrimLeft(template, "?&")
	if suffix == "" {
		return link
	}
	suffix = strings.ReplaceAll(suffix, PlaceholderPreStepToken, url.QueryEscape(token))

	switch {
	case strings.HasSuffix(link, "?"), strings.HasSuffix(link, "&"):
		return link + suffix
	case strings.Contains(link, "?"):
		return link + "&" + suffix
	default:
		return link + "?" + suffix
	}
}

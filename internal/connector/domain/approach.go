package domain

import "strings"

// ScaApproach selects how the PSU authenticates.
type ScaApproach string

const (
	ApproachEmbedded        ScaApproach = "EMBEDDED"
	ApproachRedirect        ScaApproach = "REDIRECT"
	ApproachOAuthPreStep    ScaApproach = "OAUTH_PRE_STEP"
	ApproachOAuthIntegrated ScaApproach = "OAUTH_INTEGRATED"
)

// ParseApproach accepts the canonical names case-insensitively.
func ParseApproach(s string) (ScaApproach, bool) {
	switch a := ScaApproach(strings.ToUpper(strings.TrimSpace(s))); a {
	case ApproachEmbedded, ApproachRedirect, ApproachOAuthPreStep, ApproachOAuthIntegrated:
		return a, true
	}
	return "", false
}

// OAuth reports whether the confirmation code is checked locally.
func (a ScaApproach) OAuth() bool {
	return a == ApproachOAuthPreStep || a == ApproachOAuthIntegrated
}

package service

import (
	"fmt"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
)

// NoMethodsPolicy decides where a PSU without any SCA method lands after
// identification.
type NoMethodsPolicy string

const (
	// NoMethodsAuthenticated lands on PSU_AUTHENTICATED, leaving the decision
	// to finalise to a later confirmation step.
	NoMethodsAuthenticated NoMethodsPolicy = "authenticated"
	// NoMethodsExempted lands on EXEMPTED, treating the operation as SCA
	// exempt. Only revocation is possible afterwards.
	NoMethodsExempted NoMethodsPolicy = "exempted"
)

// ParseNoMethodsPolicy parses a configured policy, "" meaning the default.
func ParseNoMethodsPolicy(s string) (NoMethodsPolicy, error) {
	switch p := NoMethodsPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return NoMethodsAuthenticated, nil
	case NoMethodsAuthenticated, NoMethodsExempted:
		return p, nil
	default:
		return "", fmt.Errorf("unknown no-methods policy %q", s)
	}
}

func (p NoMethodsPolicy) landing() domain.ScaStatus {
	if p == NoMethodsExempted {
		return domain.StatusExempted
	}
	return domain.StatusPSUAuthenticated
}

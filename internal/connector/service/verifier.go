package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/connector/bearer"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
)

// ConfirmationVerifier finalises an authorisation from the confirmation
// code handed back to the TPP after the PSU authorised elsewhere.
type ConfirmationVerifier struct {
	Authority Authority
	Metrics   *Metrics
}

// CheckConfirmationCode lets the authority verify code. Any authority
// failure is reported as ErrPSUCredentialsInvalid carrying the authority's
// message and status code.
func (v *ConfirmationVerifier) CheckConfirmationCode(ctx context.Context, authorisationID, code string, s domain.State) (domain.Outcome, error) {
	if code == "" {
		return domain.Outcome{}, domain.Errorf(domain.ErrFormat, "confirmation code is required")
	}

	a := s.Auth()
	ctx, release := bearer.Scope(ctx, a.BearerToken.Value())
	defer release()

	start := time.Now()
	res, err := v.Authority.VerifyConfirmationCode(ctx, a.OperationID, authorisationID, code)
	v.Metrics.remote("verify_confirmation", time.Since(start), err)
	if err != nil {
		v.Metrics.confirmation("remote", false)
		return domain.Outcome{}, asCredentialsError(err)
	}

	v.Metrics.confirmation("remote", res.Success)
	return outcomeOf(s, res), nil
}

// CompleteConfirmation reports a locally checked verdict to the authority
// and maps its answer.
func (v *ConfirmationVerifier) CompleteConfirmation(ctx context.Context, confirmed bool, s domain.State) (domain.Outcome, error) {
	a := s.Auth()
	ctx, release := bearer.Scope(ctx, a.BearerToken.Value())
	defer release()

	start := time.Now()
	res, err := v.Authority.CompleteConfirmation(ctx, a.OperationID, a.AuthorisationID, confirmed)
	v.Metrics.remote("complete_confirmation", time.Since(start), err)
	if err != nil {
		return domain.Outcome{}, asCredentialsError(err)
	}

	// A rejected code stays rejected whatever the authority answers.
	if !confirmed {
		res.Success = false
	}
	return outcomeOf(s, res), nil
}

// CheckConfirmationCodeInternally compares scaData with the confirmation
// code the authority issued into the state. The submitted code is not
// consulted: under OAuth the stored code is a correlation secret, not
// something the PSU typed. Neither is the authorisation id; the state the
// code lives in already names its authorisation.
func (v *ConfirmationVerifier) CheckConfirmationCodeInternally(_, _, scaData string, s domain.State) bool {
	stored := s.Auth().AuthConfirmationCode

	ok := stored != "" && cryptox.EqualConstantTime(stored, scaData)

	v.Metrics.confirmation("internal", ok)
	return ok
}

func outcomeOf(s domain.State, res *domain.ConfirmationResult) domain.Outcome {
	if res == nil {
		return mapOutcome(s, false, false, "")
	}
	o := mapOutcome(s, res.Success, res.PartiallyAuthorised, res.TransactionStatus)

	// The authority may name the consent status itself.
	if _, ok := s.(*domain.ConsentState); ok && res.Success && !res.PartiallyAuthorised && res.ConsentStatus != "" {
		o.ConsentStatus = res.ConsentStatus
	}
	return o
}

func asCredentialsError(err error) error {
	de := domain.AsError(err)
	return &domain.Error{
		Kind:       domain.ErrPSUCredentialsInvalid,
		Message:    de.Message,
		StatusCode: de.StatusCode,
		Cause:      de,
	}
}

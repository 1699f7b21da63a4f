package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/connector/bearer"
	"github.com/aussiebroadwan/scaconnect/internal/connector/codec"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/internal/connector/replay"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// Engine drives authorisations through their SCA states. It keeps no state
// between calls: everything it needs travels in the opaque token.
type Engine struct {
	Authority Authority
	Verifier  *ConfirmationVerifier
	NoMethods NoMethodsPolicy

	// Guard is optional. When set, tokens of closed authorisations are
	// rejected before any remote call.
	Guard   replay.Guard
	Metrics *Metrics
	Now     func() time.Time
}

// NewEngine wires an engine with its confirmation verifier.
func NewEngine(authority Authority, policy NoMethodsPolicy, guard replay.Guard, metrics *Metrics) *Engine {
	return &Engine{
		Authority: authority,
		Verifier:  &ConfirmationVerifier{Authority: authority, Metrics: metrics},
		NoMethods: policy,
		Guard:     guard,
		Metrics:   metrics,
		Now:       time.Now,
	}
}

// Step is the successful result of an engine operation.
type Step struct {
	State domain.State
	// Token is the base64url opaque token to hand back to the caller.
	Token string
}

// Status is the caller-facing textual status.
func (s *Step) Status() string { return string(s.State.Auth().ScaStatus) }

// InitiateConsent creates a consent at the authority and starts its SCA.
func (e *Engine) InitiateConsent(ctx context.Context, req domain.ConsentRequest) (*Step, error) {
	const op = "initiate_consent"

	var resp *domain.AuthorityResponse
	err := e.remote(op, func() (err error) {
		resp, err = e.Authority.CreateConsent(ctx, req)
		return err
	})
	if err != nil {
		return e.fail(ctx, op, err)
	}

	s := &domain.ConsentState{
		Authorization: e.received(resp),
		ConsentID:     resp.OperationID,
		ConsentStatus: orConsent(resp.ConsentStatus, domain.ConsentReceived),
	}
	return e.emit(ctx, op, "", s)
}

// InitiatePayment creates a payment at the authority and starts its SCA.
func (e *Engine) InitiatePayment(ctx context.Context, req domain.PaymentRequest) (*Step, error) {
	const op = "initiate_payment"

	if req.PaymentProduct == "" {
		return e.fail(ctx, op, domain.Errorf(domain.ErrFormat, "payment product is required"))
	}

	var resp *domain.AuthorityResponse
	err := e.remote(op, func() (err error) {
		resp, err = e.Authority.CreatePayment(ctx, req)
		return err
	})
	if err != nil {
		return e.fail(ctx, op, err)
	}

	s := &domain.PaymentState{
		Authorization:     e.received(resp),
		PaymentID:         resp.OperationID,
		PaymentProduct:    req.PaymentProduct,
		TransactionStatus: orTx(resp.TransactionStatus, domain.TxReceived),
	}
	return e.emit(ctx, op, "", s)
}

// Login authenticates a PSU before any operation exists.
func (e *Engine) Login(ctx context.Context, login, pin string) (*Step, error) {
	const op = "login"

	if login == "" || pin == "" {
		return e.fail(ctx, op, domain.Errorf(domain.ErrFormat, "login and pin are required"))
	}

	var resp *domain.AuthorityResponse
	err := e.remote(op, func() (err error) {
		resp, err = e.Authority.Authenticate(ctx, login, pin, domain.OperationRef{Kind: domain.ObjectTypeLogin})
		return err
	})
	if err != nil {
		return e.fail(ctx, op, err)
	}
	if resp.BearerToken == nil {
		return e.fail(ctx, op, domain.Errorf(domain.ErrRemoteAuthority, "authority issued no bearer"))
	}

	s := &domain.LoginState{Authorization: domain.Authorization{
		ScaStatus:   domain.StatusPSUAuthenticated,
		BearerToken: resp.BearerToken,
		ScaMethods:  resp.ScaMethods,
		PsuMessage:  resp.PsuMessage,
		StatusDate:  e.statusDate(resp),
	}}
	return e.emit(ctx, op, "", s)
}

// IdentifyPSU authenticates the PSU against the authorisation in token.
//
// Landing depends on the PSU's methods: none goes to the NoMethods policy,
// exactly one is selected automatically (the authority already sent the
// code) and several wait for SelectMethod.
func (e *Engine) IdentifyPSU(ctx context.Context, token, login, pin string) (*Step, error) {
	if login == "" || pin == "" {
		return e.fail(ctx, "identify_psu", domain.Errorf(domain.ErrFormat, "login and pin are required"))
	}

	return e.step(ctx, "identify_psu", token, only(domain.StatusReceived),
		func(ctx context.Context, s domain.State) error {
			a := s.Auth()

			var resp *domain.AuthorityResponse
			err := e.remote("authenticate", func() (err error) {
				resp, err = e.Authority.Authenticate(ctx, login, pin, domain.OperationRef{
					OperationID:     a.OperationID,
					AuthorisationID: a.AuthorisationID,
					Kind:            s.Kind(),
				})
				return err
			})
			if err != nil {
				return err
			}
			if resp.BearerToken == nil {
				return domain.Errorf(domain.ErrRemoteAuthority, "authority issued no bearer")
			}

			a.BearerToken = resp.BearerToken
			a.ScaMethods = resp.ScaMethods
			a.PsuMessage = resp.PsuMessage
			a.StatusDate = e.statusDate(resp)
			keepConfirmationCode(a, resp)

			switch len(resp.ScaMethods) {
			case 0:
				a.ScaStatus = e.NoMethods.landing()
			case 1:
				a.ScaStatus = domain.StatusScaMethodSelected
				a.ChosenScaMethod = resp.ScaMethods[0].ID
			default:
				a.ScaStatus = domain.StatusPSUIdentified
			}
			return nil
		})
}

// AuthorizeWithToken accepts an OAuth access token obtained in a pre-step
// instead of a login and PIN.
func (e *Engine) AuthorizeWithToken(ctx context.Context, token, accessToken string) (*Step, error) {
	if accessToken == "" {
		return e.fail(ctx, "authorize_with_token", domain.Errorf(domain.ErrFormat, "access token is required"))
	}

	return e.step(ctx, "authorize_with_token", token, only(domain.StatusReceived),
		func(ctx context.Context, s domain.State) error {
			var b *domain.BearerToken
			err := e.remote("validate_token", func() (err error) {
				b, err = e.Authority.ValidateToken(ctx, accessToken)
				return err
			})
			if err != nil {
				return err
			}
			if b == nil || b.AccessToken == "" {
				return domain.Errorf(domain.ErrPSUCredentialsInvalid, "access token rejected")
			}

			a := s.Auth()
			a.BearerToken = b
			a.ScaStatus = domain.StatusPSUAuthenticated
			a.StatusDate = e.now()
			return nil
		})
}

// SelectMethod picks one of the PSU's SCA methods; the authority delivers
// the code. Re-selecting while a method is already chosen is allowed.
func (e *Engine) SelectMethod(ctx context.Context, token, methodID string) (*Step, error) {
	return e.step(ctx, "select_method", token, only(domain.StatusPSUIdentified, domain.StatusScaMethodSelected),
		func(ctx context.Context, s domain.State) error {
			a := s.Auth()
			if _, ok := domain.FindMethod(a.ScaMethods, methodID); !ok {
				return domain.Errorf(domain.ErrFormat, "unknown SCA method %q", methodID)
			}

			var resp *domain.AuthorityResponse
			err := e.remote("select_method", func() (err error) {
				resp, err = e.Authority.SelectMethod(ctx, a.OperationID, a.AuthorisationID, methodID)
				return err
			})
			if err != nil {
				return err
			}

			if resp.ScaStatus != domain.StatusScaMethodSelected {
				return domain.Errorf(domain.ErrIllegalTransition,
					"authority answered %s to a method selection", resp.ScaStatus)
			}

			a.ScaStatus = domain.StatusScaMethodSelected
			a.ChosenScaMethod = methodID
			a.PsuMessage = resp.PsuMessage
			a.StatusDate = e.statusDate(resp)
			keepConfirmationCode(a, resp)
			if resp.BearerToken != nil {
				a.BearerToken = resp.BearerToken
			}
			return nil
		})
}

// VerifyCode submits the SCA code (TAN). A wrong code that leaves attempts
// returns ErrPSUCredentialsInvalid and the caller keeps its previous token;
// exhausting the attempts yields a FAILED token.
func (e *Engine) VerifyCode(ctx context.Context, token, code string) (*Step, error) {
	if code == "" {
		return e.fail(ctx, "verify_code", domain.Errorf(domain.ErrFormat, "code is required"))
	}

	return e.step(ctx, "verify_code", token, only(domain.StatusScaMethodSelected),
		func(ctx context.Context, s domain.State) error {
			a := s.Auth()

			var resp *domain.AuthorityResponse
			err := e.remote("verify_code", func() (err error) {
				resp, err = e.Authority.VerifyCode(ctx, a.OperationID, a.AuthorisationID, code)
				return err
			})
			if err != nil {
				return err
			}

			switch resp.ScaStatus {
			case domain.StatusFinalised:
				applyOutcome(s, mapOutcome(s, true, resp.PartiallyAuthorised, resp.TransactionStatus))
				if resp.BearerToken != nil && a.ScaStatus == domain.StatusFinalised {
					a.BearerToken = resp.BearerToken
				}
				keepConfirmationCode(a, resp)
			case domain.StatusFailed:
				applyOutcome(s, mapOutcome(s, false, false, ""))
			case domain.StatusScaMethodSelected:
				return domain.Errorf(domain.ErrPSUCredentialsInvalid, "%s", orMessage(resp.PsuMessage, "invalid SCA code"))
			default:
				return domain.Errorf(domain.ErrIllegalTransition, "authority answered %s to a code verification", resp.ScaStatus)
			}

			a.PsuMessage = resp.PsuMessage
			a.StatusDate = e.statusDate(resp)
			return nil
		})
}

// Revoke cancels a running authorisation. The result is FINALISED with the
// revoked flag set and no bearer. A login has no operation at the authority
// and cannot be revoked.
func (e *Engine) Revoke(ctx context.Context, token string) (*Step, error) {
	return e.step(ctx, "revoke", token, anyStatus,
		func(ctx context.Context, s domain.State) error {
			if _, ok := s.(*domain.LoginState); ok {
				return domain.Errorf(domain.ErrIllegalTransition, "a login cannot be revoked")
			}
			a := s.Auth()

			var resp *domain.AuthorityResponse
			err := e.remote("revoke", func() (err error) {
				resp, err = e.Authority.Revoke(ctx, a.OperationID, a.AuthorisationID)
				return err
			})
			if err != nil {
				return err
			}

			a.ScaStatus = domain.StatusFinalised
			a.Revoked = true
			a.BearerToken = nil
			a.StatusDate = e.statusDate(resp)

			switch v := s.(type) {
			case *domain.ConsentState:
				v.ConsentStatus = domain.ConsentRevokedByPSU
			case *domain.PaymentState:
				v.TransactionStatus = domain.TxCancelled
			}
			return nil
		})
}

// Confirm checks the confirmation code returned to the TPP after a redirect
// or OAuth authorisation. OAuth approaches compare the code locally and
// report the verdict; the others let the authority check it.
func (e *Engine) Confirm(ctx context.Context, token string, approach domain.ScaApproach, code, scaData string) (*Step, error) {
	return e.step(ctx, "confirm", token, anyStatus,
		func(ctx context.Context, s domain.State) error {
			a := s.Auth()
			v := e.verifier()

			var (
				o   domain.Outcome
				err error
			)
			if approach.OAuth() {
				ok := v.CheckConfirmationCodeInternally(a.AuthorisationID, code, scaData, s)
				o, err = v.CompleteConfirmation(ctx, ok, s)
			} else {
				o, err = v.CheckConfirmationCode(ctx, a.AuthorisationID, code, s)
			}
			if err != nil {
				return err
			}

			applyOutcome(s, o)
			a.StatusDate = e.now()
			return nil
		})
}

// Status decodes the token without contacting the authority.
func (e *Engine) Status(ctx context.Context, token string) (*Step, error) {
	s, err := codec.DecodeString(token)
	if err != nil {
		return e.fail(ctx, "status", err)
	}
	e.Metrics.transition("status", nil)
	return &Step{State: s, Token: token}, nil
}

// step runs one transition: decode, check, scope the bearer, apply fn to a
// copy of the state, check monotonicity and re-encode.
func (e *Engine) step(
	ctx context.Context,
	op, token string,
	allowed func(domain.ScaStatus) bool,
	fn func(ctx context.Context, s domain.State) error,
) (*Step, error) {
	cur, err := codec.DecodeString(token)
	if err != nil {
		return e.fail(ctx, op, err)
	}

	a := cur.Auth()
	from := a.ScaStatus
	if from.Terminal() {
		return e.fail(ctx, op, domain.Errorf(domain.ErrIllegalTransition, "authorisation is %s", from))
	}
	if !allowed(from) {
		return e.fail(ctx, op, domain.Errorf(domain.ErrIllegalTransition, "%s not allowed from %s", op, from))
	}
	if err := e.checkReplay(ctx, a.AuthorisationID); err != nil {
		return e.fail(ctx, op, err)
	}

	ctx, release := bearer.Scope(ctx, a.BearerToken.Value())
	defer release()

	next := domain.Clone(cur)
	if err := fn(ctx, next); err != nil {
		return e.fail(ctx, op, err)
	}

	to := next.Auth().ScaStatus
	if !from.CanAdvanceTo(to) {
		return e.fail(ctx, op, domain.Errorf(domain.ErrIllegalTransition, "regressive transition %s -> %s", from, to))
	}

	if to.Terminal() {
		e.closeReplay(ctx, next.Auth().AuthorisationID)
	}
	return e.emit(ctx, op, from, next)
}

func (e *Engine) emit(ctx context.Context, op string, from domain.ScaStatus, s domain.State) (*Step, error) {
	tok, err := codec.EncodeString(s)
	if err != nil {
		return e.fail(ctx, op, err)
	}

	a := s.Auth()
	slogx.FromContext(ctx).LogAttrs(ctx, slog.LevelInfo, "sca transition",
		slog.String("op", op),
		slog.String("kind", string(s.Kind())),
		slog.String("operation_id", a.OperationID),
		slog.String("authorisation_id", a.AuthorisationID),
		slog.String("from", string(from)),
		slog.String("to", string(a.ScaStatus)),
	)
	e.Metrics.transition(op, nil)
	return &Step{State: s, Token: tok}, nil
}

func (e *Engine) fail(ctx context.Context, op string, err error) (*Step, error) {
	de := domain.AsError(err)

	log := slogx.FromContext(ctx).With("op", op, "kind", de.Code(), "status_code", de.StatusCode)
	if de.Technical() {
		log.Error("sca step failed", "err", de)
	} else {
		log.Info("sca step rejected", "reason", de.Message)
	}

	e.Metrics.transition(op, de)
	return nil, de
}

func (e *Engine) remote(call string, fn func() error) error {
	start := time.Now()
	err := fn()
	e.Metrics.remote(call, time.Since(start), err)
	return err
}

func (e *Engine) checkReplay(ctx context.Context, authorisationID string) error {
	if e.Guard == nil || authorisationID == "" {
		return nil
	}
	closed, err := e.Guard.Closed(ctx, authorisationID)
	if err != nil {
		return &domain.Error{Kind: domain.ErrReplayGuardUnavailable, Message: "replay guard unavailable", Cause: err}
	}
	if closed {
		return domain.Errorf(domain.ErrIllegalTransition, "authorisation %s is already closed", authorisationID)
	}
	return nil
}

func (e *Engine) closeReplay(ctx context.Context, authorisationID string) {
	if e.Guard == nil || authorisationID == "" {
		return
	}
	if err := e.Guard.Close(ctx, authorisationID); err != nil {
		slogx.FromContext(ctx).Error("replay guard close failed", "authorisation_id", authorisationID, "err", err)
	}
}

func (e *Engine) verifier() *ConfirmationVerifier {
	if e.Verifier != nil {
		return e.Verifier
	}
	return &ConfirmationVerifier{Authority: e.Authority, Metrics: e.Metrics}
}

func (e *Engine) received(resp *domain.AuthorityResponse) domain.Authorization {
	return domain.Authorization{
		OperationID:     resp.OperationID,
		AuthorisationID: resp.AuthorisationID,
		ScaStatus:       domain.StatusReceived,
		PsuMessage:      resp.PsuMessage,
		StatusDate:      e.statusDate(resp),
	}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	return e.Now().UTC().Truncate(time.Millisecond)
}

func (e *Engine) statusDate(resp *domain.AuthorityResponse) time.Time {
	if resp != nil && !resp.StatusDate.IsZero() {
		return resp.StatusDate.UTC()
	}
	return e.now()
}

// keepConfirmationCode stores the code the TPP will later present, once the
// authority hands one out.
func keepConfirmationCode(a *domain.Authorization, resp *domain.AuthorityResponse) {
	if resp.AuthConfirmationCode != "" {
		a.AuthConfirmationCode = resp.AuthConfirmationCode
	}
}

func only(statuses ...domain.ScaStatus) func(domain.ScaStatus) bool {
	return func(s domain.ScaStatus) bool {
		for _, want := range statuses {
			if s == want {
				return true
			}
		}
		return false
	}
}

func anyStatus(domain.ScaStatus) bool { return true }

func orConsent(v, def domain.ConsentStatus) domain.ConsentStatus {
	if v == "" {
		return def
	}
	return v
}

func orTx(v, def domain.TransactionStatus) domain.TransactionStatus {
	if v == "" {
		return def
	}
	return v
}

func orMessage(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

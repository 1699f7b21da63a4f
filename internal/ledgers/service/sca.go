package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/aussiebroadwan/scaconnect/pkg/idx"
	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// DefaultAuthorisationTTL bounds how long an authorisation may stay open.
const DefaultAuthorisationTTL = 30 * time.Minute

// SCAService runs the authority side of strong customer authentication:
// operations, their authorisations, PSU login and code checks.
type SCAService struct {
	Store  store.Store
	Tokens *TokenService
	Codes  *CodeService
	Hasher cryptox.SecretHasher

	AuthorisationTTL time.Duration
	Now              func() time.Time
}

// OperationInput creates a consent or payment.
type OperationInput struct {
	PSULogin          string
	Product           string
	Payload           []byte
	RequiredApprovals int
}

// LoginInput authenticates a PSU, optionally against an authorisation.
type LoginInput struct {
	Login           string
	PIN             string
	OperationID     string
	AuthorisationID string
	OperationType   string
}

// Result is the state of an authorisation after a step.
type Result struct {
	Operation     domain.Operation
	Authorisation domain.Authorisation
	Methods       []domain.ScaMethod
	Bearer        *IssuedToken

	// ConfirmationCode is handed out once, after a bound login.
	ConfirmationCode string
	Message          string
}

// Partial reports whether the operation still waits for other parties.
func (r *Result) Partial() bool {
	return r.Operation.ID != "" && r.Authorisation.Status == domain.ScaFinalised && !r.Operation.Authorised()
}

// ConfirmationResult is the verdict on a confirmation code.
type ConfirmationResult struct {
	Success       bool
	Operation     domain.Operation
	Authorisation domain.Authorisation
}

// CreateOperation stores a consent or payment with its first authorisation.
func (s *SCAService) CreateOperation(ctx context.Context, typ domain.OperationType, in OperationInput) (*Result, error) {
	if typ == domain.OperationPayment && strings.TrimSpace(in.Product) == "" {
		return nil, fmt.Errorf("%w: payment product is required", ErrInvalidRequest)
	}
	if in.RequiredApprovals < 0 {
		return nil, fmt.Errorf("%w: required approvals must not be negative", ErrInvalidRequest)
	}

	payload := in.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	now := s.now()
	op := domain.Operation{
		ID:                idx.New(idx.KindOperation).String(),
		Type:              typ,
		PSULogin:          in.PSULogin,
		Product:           in.Product,
		Payload:           payload,
		Status:            domain.ConsentReceived,
		RequiredApprovals: max(in.RequiredApprovals, 1),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if typ == domain.OperationPayment {
		op.Status = domain.PaymentReceived
	}
	a := s.newAuthorisation(op.ID, now)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Operations().CreateOperation(ctx, op); err != nil {
			return fmt.Errorf("create operation: %w", err)
		}
		if err := tx.Authorisations().CreateAuthorisation(ctx, a); err != nil {
			return fmt.Errorf("create authorisation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("operation created", "operation_id", op.ID, "type", op.Type, "authorisation_id", a.ID)
	return &Result{Operation: op, Authorisation: a}, nil
}

// StartAuthorisation opens another authorisation on an operation, e.g. for
// the next party of a multilevel SCA.
func (s *SCAService) StartAuthorisation(ctx context.Context, operationID string) (*Result, error) {
	var res *Result
	if !idx.Is(idx.KindOperation, operationID) {
		return nil, ErrNotFound
	}
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		op, err := tx.Operations().GetOperation(ctx, operationID)
		if err != nil {
			return notFound(err)
		}
		if op.Authorised() || op.Status == op.RejectedStatus() || op.Status == op.RevokedStatus() {
			return fmt.Errorf("%w: operation is %s", ErrIllegalState, op.Status)
		}

		a := s.newAuthorisation(op.ID, s.now())
		if err := tx.Authorisations().CreateAuthorisation(ctx, a); err != nil {
			return fmt.Errorf("create authorisation: %w", err)
		}
		res = &Result{Operation: op, Authorisation: a}
		return nil
	})
	return res, err
}

// Login checks a PSU's login and PIN. Without an authorisation it only
// issues a bearer. Bound to an authorisation it also lands the
// authorisation on a status depending on the PSU's methods and hands out
// the confirmation code for the redirect.
func (s *SCAService) Login(ctx context.Context, in LoginInput) (*Result, error) {
	psu, err := authenticate(ctx, s.Store, s.Hasher, in.Login, in.PIN)
	if err != nil {
		return nil, err
	}

	if in.AuthorisationID == "" {
		tok, err := s.Tokens.Issue(Grant{Login: psu.Login, Scopes: []string{jwtx.ScopeSCA}, AMR: []string{AMRPIN}})
		if err != nil {
			return nil, err
		}
		return &Result{
			Authorisation: domain.Authorisation{PSULogin: psu.Login, Status: domain.ScaPSUAuthenticated, UpdatedAt: s.now()},
			Methods:       psu.Methods,
			Bearer:        tok,
		}, nil
	}

	confirmation, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		op, a, err := s.load(ctx, tx, in.OperationID, in.AuthorisationID)
		if err != nil {
			return err
		}
		if in.OperationType != "" && in.OperationType != string(op.Type) {
			return fmt.Errorf("%w: authorisation belongs to a %s", ErrInvalidRequest, op.Type)
		}
		if a.Status != domain.ScaReceived {
			return fmt.Errorf("%w: authorisation is %s", ErrIllegalState, a.Status)
		}
		if op.RequiredApprovals <= 1 && op.PSULogin != "" && op.PSULogin != psu.Login {
			return ErrPSUCredentialsInvalid
		}

		a.PSULogin = psu.Login
		a.ConfirmationHash = cryptox.FingerprintToken(confirmation)

		switch len(psu.Methods) {
		case 0:
			a.Status = domain.ScaPSUAuthenticated
		case 1:
			seed, err := s.Codes.Deliver(ctx, psu, psu.Methods[0])
			if err != nil {
				return err
			}
			a.Status = domain.ScaMethodSelected
			a.ChosenMethod = psu.Methods[0].ID
			a.OTPSecret = seed
		default:
			a.Status = domain.ScaPSUIdentified
		}

		if err := s.update(ctx, tx, &a); err != nil {
			return err
		}
		res = &Result{Operation: op, Authorisation: a, Methods: psu.Methods, ConfirmationCode: confirmation}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Bearer, err = s.Tokens.Issue(Grant{
		Login:           psu.Login,
		OperationID:     res.Operation.ID,
		AuthorisationID: res.Authorisation.ID,
		Scopes:          []string{jwtx.ScopeSCA},
		AMR:             []string{AMRPIN},
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SelectMethod picks one of the PSU's methods and delivers a fresh code
// over it. Selecting again resets the attempt counter.
func (s *SCAService) SelectMethod(ctx context.Context, claims jwtx.Claims, operationID, authorisationID, methodID string) (*Result, error) {
	var res *Result
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		op, a, err := s.load(ctx, tx, operationID, authorisationID)
		if err != nil {
			return err
		}
		if err := checkBearer(claims, a); err != nil {
			return err
		}
		if a.Status != domain.ScaPSUIdentified && a.Status != domain.ScaMethodSelected {
			return fmt.Errorf("%w: authorisation is %s", ErrIllegalState, a.Status)
		}

		psu, err := tx.PSUs().GetPSUByLogin(ctx, a.PSULogin)
		if err != nil {
			return notFound(err)
		}
		m, ok := psu.Method(methodID)
		if !ok {
			return fmt.Errorf("%w: unknown sca method %q", ErrInvalidRequest, methodID)
		}

		seed, err := s.Codes.Deliver(ctx, psu, m)
		if err != nil {
			return err
		}
		a.Status = domain.ScaMethodSelected
		a.ChosenMethod = m.ID
		a.OTPSecret = seed
		a.Attempts = 0

		if err := s.update(ctx, tx, &a); err != nil {
			return err
		}
		res = &Result{Operation: op, Authorisation: a, Methods: psu.Methods, Message: "code sent via " + m.Type}
		return nil
	})
	return res, err
}

// VerifyCode checks the SCA code. A wrong code costs an attempt and leaves
// the authorisation on SCA_METHOD_SELECTED until MaxScaAttempts is reached,
// then it fails. A right code finalises the authorisation and counts as one
// approval of the operation.
func (s *SCAService) VerifyCode(ctx context.Context, claims jwtx.Claims, operationID, authorisationID, code string) (*Result, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidRequest)
	}

	var res *Result
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		op, a, err := s.load(ctx, tx, operationID, authorisationID)
		if err != nil {
			return err
		}
		if err := checkBearer(claims, a); err != nil {
			return err
		}
		if a.Status != domain.ScaMethodSelected {
			return fmt.Errorf("%w: authorisation is %s", ErrIllegalState, a.Status)
		}

		res = &Result{}
		if s.Codes.Check(a.OTPSecret, code) {
			err = s.approve(ctx, tx, &op, &a)
		} else {
			res.Message, err = s.reject(ctx, tx, &op, &a)
		}
		if err != nil {
			return err
		}
		res.Operation, res.Authorisation = op, a
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Authorisation.Status == domain.ScaFinalised {
		scope := jwtx.ScopeFull
		if res.Partial() {
			scope = jwtx.ScopePartial
		}
		res.Bearer, err = s.Tokens.Issue(Grant{
			Login:           res.Authorisation.PSULogin,
			OperationID:     res.Operation.ID,
			AuthorisationID: res.Authorisation.ID,
			Scopes:          []string{scope},
			AMR:             []string{AMRPIN, AMROTP},
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// VerifyConfirmation checks the code the TPP got back from the redirect.
// A wrong code fails the authorisation.
func (s *SCAService) VerifyConfirmation(ctx context.Context, operationID, authorisationID, code string) (*ConfirmationResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidRequest)
	}
	return s.settle(ctx, operationID, authorisationID, func(a domain.Authorisation) bool {
		return a.ConfirmationHash != "" &&
			cryptox.EqualConstantTime(a.ConfirmationHash, cryptox.FingerprintToken(code))
	})
}

// CompleteConfirmation records the verdict of a confirmation code the
// caller checked itself.
func (s *SCAService) CompleteConfirmation(ctx context.Context, operationID, authorisationID string, confirmed bool) (*ConfirmationResult, error) {
	return s.settle(ctx, operationID, authorisationID, func(domain.Authorisation) bool { return confirmed })
}

// Revoke cancels an authorisation and revokes (consent) or cancels
// (payment) its operation.
func (s *SCAService) Revoke(ctx context.Context, operationID, authorisationID string) (*Result, error) {
	var res *Result
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		op, a, err := s.load(ctx, tx, operationID, authorisationID)
		if err != nil {
			return err
		}
		if a.Status == domain.ScaFailed {
			return fmt.Errorf("%w: authorisation is %s", ErrIllegalState, a.Status)
		}

		a.Status = domain.ScaFailed
		a.OTPSecret = ""
		a.ConfirmationHash = ""
		if err := s.update(ctx, tx, &a); err != nil {
			return err
		}

		op.Status = op.RevokedStatus()
		if err := tx.Operations().UpdateOperationStatus(ctx, op.ID, op.Status, op.Approvals); err != nil {
			return err
		}
		res = &Result{Operation: op, Authorisation: a, Message: "authorisation revoked"}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("authorisation revoked", "operation_id", operationID, "authorisation_id", authorisationID)
	return res, nil
}

// ValidateToken checks a bearer issued by this authority.
func (s *SCAService) ValidateToken(_ context.Context, raw string) (*IssuedToken, error) {
	tok, _, err := s.Tokens.Validate(raw)
	return tok, err
}

func (s *SCAService) settle(
	ctx context.Context,
	operationID, authorisationID string,
	check func(domain.Authorisation) bool,
) (*ConfirmationResult, error) {
	var res *ConfirmationResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		op, a, err := s.load(ctx, tx, operationID, authorisationID)
		if err != nil {
			return err
		}
		ok := check(a)
		switch a.Status {
		case domain.ScaFailed:
			res = &ConfirmationResult{Operation: op, Authorisation: a}
			return nil
		case domain.ScaFinalised:
			// Already decided, a replayed code changes nothing.
			res = &ConfirmationResult{Success: ok, Operation: op, Authorisation: a}
			return nil
		}

		a.ConfirmationHash = ""
		if ok {
			err = s.approve(ctx, tx, &op, &a)
		} else {
			err = s.fail(ctx, tx, &op, &a)
		}
		if err != nil {
			return err
		}
		res = &ConfirmationResult{Success: ok, Operation: op, Authorisation: a}
		return nil
	})
	return res, err
}

func (s *SCAService) approve(ctx context.Context, tx store.Tx, op *domain.Operation, a *domain.Authorisation) error {
	a.Status = domain.ScaFinalised
	a.OTPSecret = ""
	if err := s.update(ctx, tx, a); err != nil {
		return err
	}

	op.Approvals++
	op.Status = op.ApprovedStatus()
	op.UpdatedAt = s.now()
	if err := tx.Operations().UpdateOperationStatus(ctx, op.ID, op.Status, op.Approvals); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("authorisation finalised",
		"operation_id", op.ID,
		"authorisation_id", a.ID,
		"approvals", op.Approvals,
		"required", op.RequiredApprovals,
	)
	return nil
}

// reject counts a wrong code and fails the authorisation once the attempts
// are used up.
func (s *SCAService) reject(ctx context.Context, tx store.Tx, op *domain.Operation, a *domain.Authorisation) (string, error) {
	a.Attempts++
	if a.AttemptsLeft() > 0 {
		return fmt.Sprintf("wrong code, %d attempts left", a.AttemptsLeft()), s.update(ctx, tx, a)
	}
	return "too many wrong codes", s.fail(ctx, tx, op, a)
}

func (s *SCAService) fail(ctx context.Context, tx store.Tx, op *domain.Operation, a *domain.Authorisation) error {
	a.Status = domain.ScaFailed
	a.OTPSecret = ""
	if err := s.update(ctx, tx, a); err != nil {
		return err
	}
	op.Status = op.RejectedStatus()
	op.UpdatedAt = s.now()
	return tx.Operations().UpdateOperationStatus(ctx, op.ID, op.Status, op.Approvals)
}

func (s *SCAService) load(ctx context.Context, tx store.Tx, operationID, authorisationID string) (domain.Operation, domain.Authorisation, error) {
	if !idx.Is(idx.KindAuthorisation, authorisationID) {
		return domain.Operation{}, domain.Authorisation{}, ErrNotFound
	}
	a, err := tx.Authorisations().GetAuthorisation(ctx, authorisationID)
	if err != nil {
		return domain.Operation{}, domain.Authorisation{}, notFound(err)
	}
	if operationID != "" && a.OperationID != operationID {
		return domain.Operation{}, domain.Authorisation{}, ErrNotFound
	}
	if !a.Status.Final() && s.now().After(a.ExpiresAt) {
		return domain.Operation{}, domain.Authorisation{}, fmt.Errorf("%w: authorisation expired", ErrIllegalState)
	}

	op, err := tx.Operations().GetOperation(ctx, a.OperationID)
	if err != nil {
		return domain.Operation{}, domain.Authorisation{}, notFound(err)
	}
	return op, a, nil
}

func (s *SCAService) update(ctx context.Context, tx store.Tx, a *domain.Authorisation) error {
	a.UpdatedAt = s.now()
	if err := tx.Authorisations().UpdateAuthorisation(ctx, *a); err != nil {
		return fmt.Errorf("update authorisation: %w", notFound(err))
	}
	return nil
}

func (s *SCAService) newAuthorisation(operationID string, now time.Time) domain.Authorisation {
	ttl := s.AuthorisationTTL
	if ttl <= 0 {
		ttl = DefaultAuthorisationTTL
	}
	return domain.Authorisation{
		ID:          idx.New(idx.KindAuthorisation).String(),
		OperationID: operationID,
		Status:      domain.ScaReceived,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *SCAService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// checkBearer requires a bearer issued for this very authorisation.
func checkBearer(claims jwtx.Claims, a domain.Authorisation) error {
	if claims.AuthorisationID != a.ID || claims.Login == "" || claims.Login != a.PSULogin {
		return fmt.Errorf("%w: bearer is not bound to authorisation %s", ErrInvalidToken, a.ID)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

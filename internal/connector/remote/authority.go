// Package remote implements the SCA authority over the ledgers HTTP API.
package remote

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/connector/bearer"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
)

// Authority adapts a ledgersdk.Client to service.Authority. The client's
// transport is expected to add the step's bearer; New arranges that.
type Authority struct {
	client *ledgersdk.Client
}

var _ service.Authority = (*Authority)(nil)

// New builds an Authority for the ledgers instance at baseURL. Outbound
// requests carry the bearer scoped on their context.
func New(baseURL string, timeout time.Duration, base http.RoundTripper) *Authority {
	if timeout <= 0 {
		timeout = ledgersdk.DefaultTimeout
	}
	hc := &http.Client{
		Timeout:   timeout,
		Transport: bearer.NewTransport(base),
	}
	return &Authority{client: ledgersdk.NewClientWithHTTP(baseURL, hc)}
}

// NewWithClient wraps an existing client.
func NewWithClient(c *ledgersdk.Client) *Authority {
	return &Authority{client: c}
}

// Client exposes the underlying SDK client, e.g. for health checks.
func (a *Authority) Client() *ledgersdk.Client { return a.client }

func (a *Authority) CreateConsent(ctx context.Context, req domain.ConsentRequest) (*domain.AuthorityResponse, error) {
	res, err := a.client.CreateConsent(ctx, ledgersdk.ConsentRequest{
		PSUID:              req.PSUID,
		Accounts:           req.Accounts,
		ValidUntil:         date(req.ValidUntil),
		FrequencyPerDay:    req.FrequencyPerDay,
		RecurringIndicator: req.RecurringIndicator,
	})
	return response(res, err)
}

func (a *Authority) CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.AuthorityResponse, error) {
	res, err := a.client.CreatePayment(ctx, req.PaymentProduct, ledgersdk.PaymentRequest{
		PSUID:          req.PSUID,
		DebtorIBAN:     req.DebtorIBAN,
		CreditorIBAN:   req.CreditorIBAN,
		CreditorName:   req.CreditorName,
		Amount:         req.Amount,
		Currency:       req.Currency,
		RemittanceInfo: req.RemittanceInfo,
	})
	return response(res, err)
}

func (a *Authority) Authenticate(ctx context.Context, login, pin string, ref domain.OperationRef) (*domain.AuthorityResponse, error) {
	res, err := a.client.Login(ctx, ledgersdk.LoginRequest{
		Login:           login,
		PIN:             pin,
		OperationID:     ref.OperationID,
		AuthorisationID: ref.AuthorisationID,
		OperationType:   operationType(ref.Kind),
	})
	return response(res, err)
}

func (a *Authority) SelectMethod(ctx context.Context, operationID, authorisationID, methodID string) (*domain.AuthorityResponse, error) {
	res, err := a.client.SelectMethod(ctx, operationID, authorisationID, methodID)
	return response(res, err)
}

func (a *Authority) VerifyCode(ctx context.Context, operationID, authorisationID, code string) (*domain.AuthorityResponse, error) {
	res, err := a.client.VerifyCode(ctx, operationID, authorisationID, code)
	return response(res, err)
}

func (a *Authority) ValidateToken(ctx context.Context, accessToken string) (*domain.BearerToken, error) {
	res, err := a.client.ValidateToken(ctx, accessToken)
	if err != nil {
		var apiErr *ledgersdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code == ledgersdk.ErrorCodeInvalidToken {
			return nil, &domain.Error{Kind: domain.ErrPSUCredentialsInvalid, Message: apiErr.Description, StatusCode: apiErr.StatusCode, Cause: err}
		}
		return nil, mapError(err)
	}
	return bearerToken(res), nil
}

func (a *Authority) Revoke(ctx context.Context, operationID, authorisationID string) (*domain.AuthorityResponse, error) {
	res, err := a.client.Revoke(ctx, operationID, authorisationID)
	return response(res, err)
}

func (a *Authority) VerifyConfirmationCode(ctx context.Context, operationID, authorisationID, code string) (*domain.ConfirmationResult, error) {
	res, err := a.client.VerifyConfirmation(ctx, operationID, authorisationID, code)
	return confirmation(res, err)
}

func (a *Authority) CompleteConfirmation(ctx context.Context, operationID, authorisationID string, confirmed bool) (*domain.ConfirmationResult, error) {
	res, err := a.client.CompleteConfirmation(ctx, operationID, authorisationID, confirmed)
	return confirmation(res, err)
}

func response(res *ledgersdk.SCAResponse, err error) (*domain.AuthorityResponse, error) {
	if err != nil {
		return nil, mapError(err)
	}

	out := &domain.AuthorityResponse{
		OperationID:          res.OperationID,
		AuthorisationID:      res.AuthorisationID,
		ScaStatus:            domain.ScaStatus(res.ScaStatus),
		ChosenScaMethod:      res.ChosenScaMethod,
		BearerToken:          bearerToken(res.BearerToken),
		AuthConfirmationCode: res.AuthConfirmationCode,
		PsuMessage:           res.PsuMessage,
		StatusDate:           res.StatusDate,
		PartiallyAuthorised:  res.PartiallyAuthorised,
		TransactionStatus:    domain.TransactionStatus(res.TransactionStatus),
		ConsentStatus:        domain.ConsentStatus(res.ConsentStatus),
	}
	for _, m := range res.ScaMethods {
		out.ScaMethods = append(out.ScaMethods, domain.ScaMethod{
			ID:          m.ID,
			Type:        domain.ScaMethodType(m.Type),
			Description: m.Description,
		})
	}
	return out, nil
}

func confirmation(res *ledgersdk.ConfirmationResponse, err error) (*domain.ConfirmationResult, error) {
	if err != nil {
		return nil, mapError(err)
	}
	return &domain.ConfirmationResult{
		Success:             res.Success,
		PartiallyAuthorised: res.PartiallyAuthorised,
		TransactionStatus:   domain.TransactionStatus(res.TransactionStatus),
		ConsentStatus:       domain.ConsentStatus(res.ConsentStatus),
	}, nil
}

func bearerToken(b *ledgersdk.BearerToken) *domain.BearerToken {
	if b == nil || b.AccessToken == "" {
		return nil
	}
	return &domain.BearerToken{
		AccessToken:  b.AccessToken,
		TokenType:    b.TokenType,
		ExpiresIn:    b.ExpiresIn,
		RefreshToken: b.RefreshToken,
	}
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func operationType(k domain.ObjectType) string {
	switch k {
	case domain.ObjectTypeConsent:
		return ledgersdk.OperationConsent
	case domain.ObjectTypePayment:
		return ledgersdk.OperationPayment
	default:
		return ledgersdk.OperationLogin
	}
}

// mapError classifies an SDK error. Wrong credentials stay a logical
// credentials error, other API errors are authority failures whose status
// code decides technical vs logical, transport errors are technical.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *ledgersdk.APIError
	if !errors.As(err, &apiErr) {
		return &domain.Error{Kind: domain.ErrRemoteAuthority, Message: "ledgers unreachable", Cause: err}
	}

	msg := apiErr.Description
	if msg == "" {
		msg = apiErr.Code
	}

	kind := domain.ErrRemoteAuthority
	switch apiErr.Code {
	case ledgersdk.ErrorCodePSUCredentialsInvalid, ledgersdk.ErrorCodeInvalidGrant:
		kind = domain.ErrPSUCredentialsInvalid
	case ledgersdk.ErrorCodeIllegalState:
		kind = domain.ErrIllegalTransition
	}
	return &domain.Error{Kind: kind, Message: msg, StatusCode: apiErr.StatusCode, Cause: err}
}

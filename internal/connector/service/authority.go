package service

//go:generate mockgen -source=authority.go -destination=mocks/authority.go -package=mocks

import (
	"context"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
)

// Authority is the remote SCA authority (the ledgers backend).
//
// Implementations take the PSU bearer from the call context (see package
// bearer) and return *domain.Error for every failure.
type Authority interface {
	CreateConsent(ctx context.Context, req domain.ConsentRequest) (*domain.AuthorityResponse, error)
	CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.AuthorityResponse, error)

	// Authenticate checks the PSU's login and PIN. ref is empty for a login
	// that is not bound to an operation.
	Authenticate(ctx context.Context, login, pin string, ref domain.OperationRef) (*domain.AuthorityResponse, error)
	SelectMethod(ctx context.Context, operationID, authorisationID, methodID string) (*domain.AuthorityResponse, error)
	VerifyCode(ctx context.Context, operationID, authorisationID, code string) (*domain.AuthorityResponse, error)
	ValidateToken(ctx context.Context, accessToken string) (*domain.BearerToken, error)
	Revoke(ctx context.Context, operationID, authorisationID string) (*domain.AuthorityResponse, error)

	VerifyConfirmationCode(ctx context.Context, operationID, authorisationID, code string) (*domain.ConfirmationResult, error)
	CompleteConfirmation(ctx context.Context, operationID, authorisationID string, confirmed bool) (*domain.ConfirmationResult, error)
}

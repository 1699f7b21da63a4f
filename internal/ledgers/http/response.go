package http

import (
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/service"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
)

func scaResponse(res *service.Result) ledgersdk.SCAResponse {
	a := res.Authorisation
	out := ledgersdk.SCAResponse{
		OperationID:          res.Operation.ID,
		AuthorisationID:      a.ID,
		ScaStatus:            string(a.Status),
		ChosenScaMethod:      a.ChosenMethod,
		BearerToken:          bearerToken(res.Bearer),
		AuthConfirmationCode: res.ConfirmationCode,
		PsuMessage:           res.Message,
		StatusDate:           a.UpdatedAt,
		PartiallyAuthorised:  res.Partial(),
	}
	for _, m := range res.Methods {
		out.ScaMethods = append(out.ScaMethods, ledgersdk.ScaMethod{ID: m.ID, Type: m.Type, Description: m.Description})
	}
	if a.Status == domain.ScaMethodSelected {
		out.AttemptsLeft = a.AttemptsLeft()
	}
	out.ConsentStatus, out.TransactionStatus = operationStatus(res.Operation)
	return out
}

func confirmationResponse(res *service.ConfirmationResult) ledgersdk.ConfirmationResponse {
	out := ledgersdk.ConfirmationResponse{
		Success:             res.Success,
		PartiallyAuthorised: res.Authorisation.Status == domain.ScaFinalised && !res.Operation.Authorised(),
		ScaStatus:           string(res.Authorisation.Status),
	}
	out.ConsentStatus, out.TransactionStatus = operationStatus(res.Operation)
	return out
}

// operationStatus reports the status under the field matching the
// operation type.
func operationStatus(op domain.Operation) (consent, transaction string) {
	switch op.Type {
	case domain.OperationConsent:
		return op.Status, ""
	case domain.OperationPayment:
		return "", op.Status
	default:
		return "", ""
	}
}

func bearerToken(t *service.IssuedToken) *ledgersdk.BearerToken {
	if t == nil {
		return nil
	}
	return &ledgersdk.BearerToken{
		AccessToken: t.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   t.ExpiresIn,
		Scope:       t.Scope,
	}
}

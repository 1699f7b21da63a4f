package http

import (
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service"
)

// Envelope wraps every connector response.
type Envelope struct {
	Success bool         `json:"success"`
	Payload any          `json:"payload,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail is the failure half of the envelope.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Technical bool   `json:"technical,omitempty"`

	// ScaOAuth is where the PSU obtains a token when OAUTH_PRE_STEP was
	// requested without one.
	ScaOAuth string `json:"scaOAuth,omitempty"`
}

// StepEnvelope documents the success envelope of an SCA step.
type StepEnvelope struct {
	Success bool         `json:"success" example:"true"`
	Payload StepResponse `json:"payload"`
}

// ErrorEnvelope documents the failure envelope.
type ErrorEnvelope struct {
	Success bool        `json:"success" example:"false"`
	Error   ErrorDetail `json:"error"`
}

// StepResponse is the caller-facing view of an authorisation after a step.
// Token must be sent back with the next step.
type StepResponse struct {
	Token      string            `json:"token"`
	ObjectType domain.ObjectType `json:"objectType" example:"SCAConsentResponseTO"`
	ScaStatus  domain.ScaStatus  `json:"scaStatus" example:"RECEIVED"`

	OperationID     string `json:"operationId,omitempty"`
	AuthorisationID string `json:"authorisationId,omitempty"`

	ConsentID         string                   `json:"consentId,omitempty"`
	ConsentStatus     domain.ConsentStatus     `json:"consentStatus,omitempty"`
	PaymentID         string                   `json:"paymentId,omitempty"`
	PaymentProduct    string                   `json:"paymentProduct,omitempty"`
	TransactionStatus domain.TransactionStatus `json:"transactionStatus,omitempty"`

	ScaMethods      []domain.ScaMethod `json:"scaMethods,omitempty"`
	ChosenScaMethod string             `json:"chosenScaMethod,omitempty"`
	PsuMessage      string             `json:"psuMessage,omitempty"`
	Revoked         bool               `json:"revoked,omitempty"`
	StatusDate      time.Time          `json:"statusDate"`

	ScaApproach domain.ScaApproach `json:"scaApproach,omitempty"`
	Links       *Links             `json:"_links,omitempty"`
}

// Links send the PSU to the ASPSP for redirect and OAuth approaches.
type Links struct {
	ScaRedirect     string `json:"scaRedirect,omitempty"`
	ScaOAuth        string `json:"scaOAuth,omitempty"`
	StartCancelling string `json:"startCancellation,omitempty"`
}

// LoginRequest authenticates a PSU without an operation.
type LoginRequest struct {
	Login string `json:"login" example:"anton.brueckner"`
	PIN   string `json:"pin" example:"12345"`
}

// PSUAuthenticationRequest identifies the PSU of an initiated operation.
type PSUAuthenticationRequest struct {
	Token string `json:"token"`
	Login string `json:"login" example:"anton.brueckner"`
	PIN   string `json:"pin" example:"12345"`
}

// OAuthRequest authorises an operation with an OAuth access token. An empty
// AccessToken falls back to the request's bearer.
type OAuthRequest struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken,omitempty"`
}

// SelectMethodRequest picks one of the offered SCA methods.
type SelectMethodRequest struct {
	Token    string `json:"token"`
	MethodID string `json:"methodId"`
}

// CodeRequest carries the TAN the PSU received.
type CodeRequest struct {
	Token string `json:"token"`
	Code  string `json:"code" example:"123456"`
}

// ConfirmationRequest carries the redirect confirmation code. ScaData is
// only read under the OAuth approaches.
type ConfirmationRequest struct {
	Token   string `json:"token"`
	Code    string `json:"code,omitempty"`
	ScaData string `json:"scaData,omitempty"`
}

// TokenRequest names an authorisation by its token only.
type TokenRequest struct {
	Token string `json:"token"`
}

func stepResponse(step *service.Step) StepResponse {
	a := step.State.Auth()
	res := StepResponse{
		Token:           step.Token,
		ObjectType:      step.State.Kind(),
		ScaStatus:       a.ScaStatus,
		OperationID:     a.OperationID,
		AuthorisationID: a.AuthorisationID,
		ScaMethods:      a.ScaMethods,
		ChosenScaMethod: a.ChosenScaMethod,
		PsuMessage:      a.PsuMessage,
		Revoked:         a.Revoked,
		StatusDate:      a.StatusDate,
	}

	switch s := step.State.(type) {
	case *domain.ConsentState:
		res.ConsentID = s.ConsentID
		res.ConsentStatus = s.ConsentStatus
	case *domain.PaymentState:
		res.PaymentID = s.PaymentID
		res.PaymentProduct = s.PaymentProduct
		res.TransactionStatus = s.TransactionStatus
	}
	return res
}

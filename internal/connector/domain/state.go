package domain

import "time"

// ObjectType discriminates the variants of an authorisation state inside the
// opaque token.
type ObjectType string

const (
	ObjectTypeConsent ObjectType = "SCAConsentResponseTO"
	ObjectTypePayment ObjectType = "SCAPaymentResponseTO"
	ObjectTypeLogin   ObjectType = "SCALoginResponseTO"
)

// Authorization holds the fields shared by every state variant.
type Authorization struct {
	OperationID          string       `json:"operationId,omitempty"`
	AuthorisationID      string       `json:"authorisationId,omitempty"`
	ScaStatus            ScaStatus    `json:"scaStatus"`
	BearerToken          *BearerToken `json:"bearerToken,omitempty"`
	ScaMethods           []ScaMethod  `json:"scaMethods,omitempty"`
	ChosenScaMethod      string       `json:"chosenScaMethod,omitempty"`
	AuthConfirmationCode string       `json:"authConfirmationCode,omitempty"`
	PsuMessage           string       `json:"psuMessage,omitempty"`
	StatusDate           time.Time    `json:"statusDate"`

	// Revoked marks a FINALISED status reached through revocation.
	Revoked bool `json:"revoked,omitempty"`
}

// Auth gives access to the shared fields of any variant.
func (a *Authorization) Auth() *Authorization { return a }

// State is the closed set of authorisation state variants. Callers switch
// on the concrete type; the unexported method keeps the set closed.
type State interface {
	Kind() ObjectType
	Auth() *Authorization
	sealed()
}

// ConsentState tracks the SCA of an account-information consent.
type ConsentState struct {
	Authorization

	ConsentID     string        `json:"consentId"`
	ConsentStatus ConsentStatus `json:"consentStatus,omitempty"`
}

// PaymentState tracks the SCA of a payment initiation.
type PaymentState struct {
	Authorization

	PaymentID         string            `json:"paymentId"`
	PaymentProduct    string            `json:"paymentProduct,omitempty"`
	TransactionStatus TransactionStatus `json:"transactionStatus,omitempty"`
}

// LoginState is issued before any operation exists.
type LoginState struct {
	Authorization
}

func (*ConsentState) Kind() ObjectType { return ObjectTypeConsent }
func (*PaymentState) Kind() ObjectType { return ObjectTypePayment }
func (*LoginState) Kind() ObjectType   { return ObjectTypeLogin }

func (*ConsentState) sealed() {}
func (*PaymentState) sealed() {}
func (*LoginState) sealed()   {}

// NewState returns an empty state for the discriminator.
func NewState(t ObjectType) (State, bool) {
	switch t {
	case ObjectTypeConsent:
		return &ConsentState{}, true
	case ObjectTypePayment:
		return &PaymentState{}, true
	case ObjectTypeLogin:
		return &LoginState{}, true
	}
	return nil, false
}

// Clone returns a deep copy so a transition never mutates its input.
func Clone(s State) State {
	var out State
	switch v := s.(type) {
	case *ConsentState:
		c := *v
		out = &c
	case *PaymentState:
		c := *v
		out = &c
	case *LoginState:
		c := *v
		out = &c
	default:
		return nil
	}

	a := out.Auth()
	if a.BearerToken != nil {
		b := *a.BearerToken
		a.BearerToken = &b
	}
	a.ScaMethods = append([]ScaMethod(nil), a.ScaMethods...)
	return out
}

package domain

import "time"

// ConsentRequest is an AIS consent the TPP wants the PSU to authorise.
type ConsentRequest struct {
	PSUID              string    `json:"psuId,omitempty"`
	Accounts           []string  `json:"accounts"`
	ValidUntil         time.Time `json:"validUntil"`
	FrequencyPerDay    int       `json:"frequencyPerDay"`
	RecurringIndicator bool      `json:"recurringIndicator"`
}

// PaymentRequest is a PIS initiation.
type PaymentRequest struct {
	PSUID          string `json:"psuId,omitempty"`
	PaymentProduct string `json:"paymentProduct"`
	DebtorIBAN     string `json:"debtorIban"`
	CreditorIBAN   string `json:"creditorIban"`
	CreditorName   string `json:"creditorName"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	RemittanceInfo string `json:"remittanceInformationUnstructured,omitempty"`
}

// OperationRef binds an authentication to an operation. All fields are
// empty for a login without operation.
type OperationRef struct {
	OperationID     string
	AuthorisationID string
	Kind            ObjectType
}

// AuthorityResponse is the authority's answer to any SCA step.
type AuthorityResponse struct {
	OperationID          string
	AuthorisationID      string
	ScaStatus            ScaStatus
	ScaMethods           []ScaMethod
	ChosenScaMethod      string
	BearerToken          *BearerToken
	AuthConfirmationCode string
	PsuMessage           string
	StatusDate           time.Time
	PartiallyAuthorised  bool
	TransactionStatus    TransactionStatus
	ConsentStatus        ConsentStatus
}

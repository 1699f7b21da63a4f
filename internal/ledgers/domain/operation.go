package domain

import "time"

// OperationType is what an authorisation authorises.
type OperationType string

const (
	OperationConsent OperationType = "consent"
	OperationPayment OperationType = "payment"
)

// Consent statuses.
const (
	ConsentReceived            = "RECEIVED"
	ConsentValid               = "VALID"
	ConsentPartiallyAuthorised = "PARTIALLY_AUTHORISED"
	ConsentRejected            = "REJECTED"
	ConsentRevokedByPSU        = "REVOKED_BY_PSU"
)

// Payment (ISO 20022) statuses.
const (
	PaymentReceived           = "RCVD"
	PaymentAcceptedTechnical  = "ACTC"
	PaymentAcceptedSettlement = "ACSP"
	PaymentPartiallyAccepted  = "PATC"
	PaymentRejected           = "RJCT"
	PaymentCancelled          = "CANC"
)

// Operation is a consent or payment waiting for, or done with, SCA.
type Operation struct {
	ID       string
	Type     OperationType
	PSULogin string
	Product  string // payments only

	// Payload is the request as received, kept as JSON.
	Payload []byte

	Status string

	// RequiredApprovals is the number of PSUs that must finish SCA. One for
	// single party operations.
	RequiredApprovals int
	Approvals         int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Authorised reports whether every required party has finished SCA.
func (o Operation) Authorised() bool {
	return o.Approvals >= max(o.RequiredApprovals, 1)
}

// ApprovedStatus is the status after an approval, depending on whether
// more parties are still outstanding.
func (o Operation) ApprovedStatus() string {
	switch {
	case o.Type == OperationConsent && o.Authorised():
		return ConsentValid
	case o.Type == OperationConsent:
		return ConsentPartiallyAuthorised
	case o.Authorised():
		return PaymentAcceptedTechnical
	default:
		return PaymentPartiallyAccepted
	}
}

// RejectedStatus is the status of an operation whose SCA failed.
func (o Operation) RejectedStatus() string {
	if o.Type == OperationConsent {
		return ConsentRejected
	}
	return PaymentRejected
}

// RevokedStatus is the status of an operation whose authorisation the PSU
// cancelled.
func (o Operation) RevokedStatus() string {
	if o.Type == OperationConsent {
		return ConsentRevokedByPSU
	}
	return PaymentCancelled
}

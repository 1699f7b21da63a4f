package domain

// TransactionStatus is the ISO 20022 payment status mirrored on a payment.
type TransactionStatus string

const (
	TxReceived           TransactionStatus = "RCVD"
	TxPending            TransactionStatus = "PDNG"
	TxAcceptedTechnical  TransactionStatus = "ACTC"
	TxAcceptedCustomer   TransactionStatus = "ACCP"
	TxAcceptedSettlement TransactionStatus = "ACSP"
	TxAcceptedCompleted  TransactionStatus = "ACSC"
	TxAcceptedCredit     TransactionStatus = "ACCC"
	TxPartiallyAccepted  TransactionStatus = "PATC"
	TxRejected           TransactionStatus = "RJCT"
	TxCancelled          TransactionStatus = "CANC"
)

var knownTx = map[TransactionStatus]struct{}{
	TxReceived: {}, TxPending: {}, TxAcceptedTechnical: {}, TxAcceptedCustomer: {},
	TxAcceptedSettlement: {}, TxAcceptedCompleted: {}, TxAcceptedCredit: {},
	TxPartiallyAccepted: {}, TxRejected: {}, TxCancelled: {},
}

// Known reports whether t is a recognised transaction status.
func (t TransactionStatus) Known() bool {
	_, ok := knownTx[t]
	return ok
}

// ConsentStatus mirrors the authority's consent lifecycle.
type ConsentStatus string

const (
	ConsentReceived            ConsentStatus = "RECEIVED"
	ConsentValid               ConsentStatus = "VALID"
	ConsentPartiallyAuthorised ConsentStatus = "PARTIALLY_AUTHORISED"
	ConsentRejected            ConsentStatus = "REJECTED"
	ConsentRevokedByPSU        ConsentStatus = "REVOKED_BY_PSU"
	ConsentTerminatedByTPP     ConsentStatus = "TERMINATED_BY_TPP"
)

// Outcome is the result of a confirmation step as applied to a state.
// Only one of TransactionStatus and ConsentStatus is set, depending on the
// operation kind.
type Outcome struct {
	ScaStatus         ScaStatus         `json:"scaStatus"`
	TransactionStatus TransactionStatus `json:"transactionStatus,omitempty"`
	ConsentStatus     ConsentStatus     `json:"consentStatus,omitempty"`
}

// ConfirmationResult is what the authority reports after checking or
// completing a confirmation code.
type ConfirmationResult struct {
	Success             bool
	PartiallyAuthorised bool
	TransactionStatus   TransactionStatus
	ConsentStatus       ConsentStatus
}

package domain

import "time"

// ScaStatus of an authorisation.
type ScaStatus string

const (
	ScaReceived         ScaStatus = "RECEIVED"
	ScaPSUIdentified    ScaStatus = "PSU_IDENTIFIED"
	ScaPSUAuthenticated ScaStatus = "PSU_AUTHENTICATED"
	ScaMethodSelected   ScaStatus = "SCA_METHOD_SELECTED"
	ScaExempted         ScaStatus = "EXEMPTED"
	ScaFinalised        ScaStatus = "FINALISED"
	ScaFailed           ScaStatus = "FAILED"
)

// Final reports whether no further step is accepted.
func (s ScaStatus) Final() bool { return s == ScaFinalised || s == ScaFailed }

// MaxScaAttempts is how many wrong codes an authorisation tolerates.
const MaxScaAttempts = 3

// Authorisation is one PSU's SCA for an operation.
type Authorisation struct {
	ID          string
	OperationID string
	PSULogin    string // set once a PSU logged in against it
	Status      ScaStatus

	ChosenMethod string
	// OTPSecret is the TOTP seed of the code sent for ChosenMethod.
	OTPSecret string
	Attempts  int

	// ConfirmationHash is the fingerprint of the code handed to the TPP
	// after the redirect.
	ConfirmationHash string

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttemptsLeft is the number of wrong codes still tolerated.
func (a Authorisation) AttemptsLeft() int {
	return max(MaxScaAttempts-a.Attempts, 0)
}

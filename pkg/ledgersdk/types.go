package ledgersdk

import "time"

// Operation types a login can be bound to.
const (
	OperationConsent = "consent"
	OperationPayment = "payment"
	OperationLogin   = "login"
)

// BearerToken is an access token issued to a PSU.
type BearerToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// ScaMethod is one way a PSU can receive an SCA code.
type ScaMethod struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// SCAResponse is the authority's view of an authorisation after a step.
type SCAResponse struct {
	OperationID          string       `json:"operation_id"`
	AuthorisationID      string       `json:"authorisation_id"`
	ScaStatus            string       `json:"sca_status"`
	ScaMethods           []ScaMethod  `json:"sca_methods,omitempty"`
	ChosenScaMethod      string       `json:"chosen_sca_method,omitempty"`
	BearerToken          *BearerToken `json:"bearer_token,omitempty"`
	AuthConfirmationCode string       `json:"auth_confirmation_code,omitempty"`
	PsuMessage           string       `json:"psu_message,omitempty"`
	StatusDate           time.Time    `json:"status_date"`
	PartiallyAuthorised  bool         `json:"partially_authorised,omitempty"`
	TransactionStatus    string       `json:"transaction_status,omitempty"`
	ConsentStatus        string       `json:"consent_status,omitempty"`
	AttemptsLeft         int          `json:"attempts_left,omitempty"`
}

// ConsentRequest creates an account-information consent.
type ConsentRequest struct {
	PSUID              string   `json:"psu_id"`
	Accounts           []string `json:"accounts,omitempty"`
	ValidUntil         string   `json:"valid_until,omitempty"`
	FrequencyPerDay    int      `json:"frequency_per_day,omitempty"`
	RecurringIndicator bool     `json:"recurring_indicator,omitempty"`
	RequiredApprovals  int      `json:"required_approvals,omitempty"`
}

// PaymentRequest creates a payment.
type PaymentRequest struct {
	PSUID             string `json:"psu_id"`
	DebtorIBAN        string `json:"debtor_iban"`
	CreditorIBAN      string `json:"creditor_iban"`
	CreditorName      string `json:"creditor_name,omitempty"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	RemittanceInfo    string `json:"remittance_info,omitempty"`
	RequiredApprovals int    `json:"required_approvals,omitempty"`
}

// LoginRequest authenticates a PSU, optionally against an authorisation.
type LoginRequest struct {
	Login           string `json:"login"`
	PIN             string `json:"pin"`
	OperationID     string `json:"operation_id,omitempty"`
	AuthorisationID string `json:"authorisation_id,omitempty"`
	OperationType   string `json:"operation_type,omitempty"`
}

// CodeRequest carries an SCA or confirmation code.
type CodeRequest struct {
	Code string `json:"code"`
}

// CompleteConfirmationRequest reports a locally checked confirmation.
type CompleteConfirmationRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ConfirmationResponse is the authority's verdict on a confirmation code.
type ConfirmationResponse struct {
	Success             bool   `json:"success"`
	PartiallyAuthorised bool   `json:"partially_authorised,omitempty"`
	ScaStatus           string `json:"sca_status,omitempty"`
	TransactionStatus   string `json:"transaction_status,omitempty"`
	ConsentStatus       string `json:"consent_status,omitempty"`
}

// ValidateTokenRequest asks whether an access token is still good.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// OAuthServerInfo is the authority's OAuth server metadata.
type OAuthServerInfo struct {
	Issuer                        string   `json:"issuer"`
	AuthorizationEndpoint         string   `json:"authorization_endpoint"`
	TokenEndpoint                 string   `json:"token_endpoint"`
	JWKSURI                       string   `json:"jwks_uri"`
	ResponseTypesSupported        []string `json:"response_types_supported"`
	GrantTypesSupported           []string `json:"grant_types_supported"`
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported"`
}

// ErrorResponse is the wire form of APIError.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status string `json:"status"`
}

// JWKSResponse is the public key set.
type JWKSResponse struct {
	Keys []map[string]any `json:"keys"`
}

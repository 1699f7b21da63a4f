package domain

import "time"

// Method types a PSU can receive an SCA code through.
const (
	MethodEmail  = "EMAIL"
	MethodSMS    = "SMS_OTP"
	MethodAppOTP = "APP_OTP"
)

// PSU is a payment service user known to the sandbox.
type PSU struct {
	ID        string
	Login     string
	PINHash   string // argon2id, see cryptox.SecretHasher
	Email     string
	Phone     string
	Methods   []ScaMethod
	CreatedAt time.Time
}

// ScaMethod is one of the PSU's registered SCA methods.
type ScaMethod struct {
	ID          string
	Type        string
	Description string
}

// Method returns the method with the given id.
func (p PSU) Method(id string) (ScaMethod, bool) {
	for _, m := range p.Methods {
		if m.ID == id {
			return m, true
		}
	}
	return ScaMethod{}, false
}

package domain

// ScaMethodType is the delivery channel of an SCA method.
type ScaMethodType string

const (
	MethodEmail    ScaMethodType = "EMAIL"
	MethodSMS      ScaMethodType = "SMS_OTP"
	MethodAppOTP   ScaMethodType = "APP_OTP"
	MethodPhotoOTP ScaMethodType = "PHOTO_OTP"
	MethodPush     ScaMethodType = "PUSH_OTP"
)

// ScaMethod is one authentication method the authority offers a PSU.
type ScaMethod struct {
	ID          string        `json:"id"`
	Type        ScaMethodType `json:"type"`
	Description string        `json:"description,omitempty"`
}

// FindMethod returns the method with the given id.
func FindMethod(methods []ScaMethod, id string) (ScaMethod, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return ScaMethod{}, false
}

package payload

import "encoding/json"

// Malformed emails and codes are not rejected here. They fall through to the
// lookup and are reported as unknown or invalid.
type CheckEmailRequest struct {
	Email string `json:"email" validate:"required,max=254"`
}

type VerifyOTPRequest struct {
	Email string  `json:"email" validate:"required,max=254"`
	OTP   OTPCode `json:"otp"   validate:"required,max=32"`
}

type VerifyOTPResponse struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RedirectPath string `json:"redirectPath"`
}

// OTPCode accepts the code as a JSON string or a JSON number.
type OTPCode string

func (c *OTPCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = OTPCode(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = OTPCode(n.String())

	return nil
}

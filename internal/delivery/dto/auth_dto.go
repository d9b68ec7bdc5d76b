package dto

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// Response DTOs

// PatientIdentityResponse carries what a patient session needs
type PatientIdentityResponse struct {
	ID    string `json:"patient_id"`
	Name  string `json:"patient_name"`
	Email string `json:"patient_email,omitempty"`
}

type AdminResponse struct {
	Email string `json:"email"`
}

type GoogleAuthResponse struct {
	AuthURL string `json:"auth_url"`
}

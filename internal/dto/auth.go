package dto

// Path A: teléfono + aserción del proveedor de identidad externo.
type FederatedLoginRequest struct {
	Phone   string `json:"phone" binding:"required"`
	IDToken string `json:"idToken" binding:"required"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Path B: flujo OTP.
type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type ResendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Voice bool   `json:"voice"`
}

type OTPLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type SessionResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Role         string `json:"role"`
	UserID       string `json:"userId"`
	IsNewUser    bool   `json:"isNewUser,omitempty"`
}

type OTPStatusResponse struct {
	Phone     string `json:"phone"`
	ExpiresAt string `json:"expiresAt"`
}

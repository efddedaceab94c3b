package models

// LoginRequest is the credential payload submitted to POST /auth/login.
// Validated locally before any network call.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// GoogleLoginRequest carries a pre-validated identity provider credential.
type GoogleLoginRequest struct {
	GoogleToken string `json:"googleToken" validate:"required"`
}

// TokenResponse is the success body of the auth endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

package models

import "time"

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Message     string    `json:"message"`
	SignupToken string    `json:"signup_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type VerifySignupRequest struct {
	SignupToken string `json:"signup_token"`
	Email       string `json:"email"`
	OTP         string `json:"otp"`
}

type ResendSignupRequest struct {
	SignupToken string `json:"signup_token"`
	Email       string `json:"email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordResponse struct {
	Message    string    `json:"message"`
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type ResendResetRequest struct {
	ResetToken string `json:"reset_token"`
	Email      string `json:"email"`
}

type VerifyResetRequest struct {
	ResetToken string `json:"reset_token"`
	Email      string `json:"email"`
	OTP        string `json:"otp"`
}

type ResetPasswordRequest struct {
	ResetToken      string `json:"reset_token"`
	Email           string `json:"email"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Login represents the credentials submitted for user login.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type EmailOTPRequest struct {
	Email string `json:"email"`
}

type VerifyEmailOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type MessageResponse struct {
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

package services

import "errors"

// Auth errors
var (
	ErrDuplicateEmail          = errors.New("email already registered")
	ErrSessionExpiredOrMissing = errors.New("session expired or not found")
	ErrOTPExpired              = errors.New("OTP expired")
	ErrInvalidOTP              = errors.New("invalid OTP")
	ErrTooManyAttempts         = errors.New("too many invalid OTP attempts")
	ErrOTPNotVerified          = errors.New("OTP not verified")
	ErrPasswordMismatch        = errors.New("passwords do not match")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrEmailNotVerified        = errors.New("email not verified")
	ErrAlreadyVerified         = errors.New("email already verified")
	ErrEmailDelivery           = errors.New("failed to send verification email")
)

// Question generator errors
var (
	ErrProviderUnavailable = errors.New("language model provider is not configured")
	ErrUpstream            = errors.New("language model request failed")
	ErrMalformedResponse   = errors.New("language model returned a malformed response")
)

// ValidationError is returned for request fields that fail validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"smarthire/internal/services"
	"smarthire/internal/utils"
)

// writeServiceError maps a service error onto a status code and a client
// facing message. Unknown errors are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.SendJSONError(w, verr.Error(), http.StatusBadRequest)

	case errors.Is(err, services.ErrDuplicateEmail):
		utils.SendJSONError(w, "Email already registered", http.StatusBadRequest)
	case errors.Is(err, services.ErrSessionExpiredOrMissing):
		utils.SendJSONError(w, "Session expired or not found. Please start again.", http.StatusBadRequest)
	case errors.Is(err, services.ErrOTPExpired):
		utils.SendJSONError(w, "OTP expired. Please request a new one.", http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidOTP):
		utils.SendJSONError(w, "Invalid OTP", http.StatusBadRequest)
	case errors.Is(err, services.ErrTooManyAttempts):
		utils.SendJSONError(w, "Too many invalid attempts. Please request a new OTP.", http.StatusBadRequest)
	case errors.Is(err, services.ErrOTPNotVerified):
		utils.SendJSONError(w, "OTP not verified", http.StatusBadRequest)
	case errors.Is(err, services.ErrPasswordMismatch):
		utils.SendJSONError(w, "Passwords do not match", http.StatusBadRequest)
	case errors.Is(err, services.ErrAlreadyVerified):
		utils.SendJSONError(w, "Email already verified", http.StatusBadRequest)

	case errors.Is(err, services.ErrUserNotFound):
		utils.SendJSONError(w, "User not found", http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.SendJSONError(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, services.ErrEmailNotVerified):
		utils.SendJSONError(w, "Email not verified. Please verify OTP.", http.StatusForbidden)

	case errors.Is(err, services.ErrEmailDelivery):
		utils.SendJSONError(w, "Failed to send verification email. Please try again later.", http.StatusInternalServerError)
	case errors.Is(err, services.ErrProviderUnavailable):
		utils.SendJSONError(w, "Interview question generation is not configured", http.StatusServiceUnavailable)
	case errors.Is(err, services.ErrUpstream):
		utils.SendJSONError(w, "Failed to generate interview questions", http.StatusInternalServerError)
	case errors.Is(err, services.ErrMalformedResponse):
		utils.SendJSONError(w, "The language model returned an invalid response", http.StatusInternalServerError)

	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled service error")
		utils.SendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decode reads the JSON body into dst and answers 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSONBody(w, r, dst); err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Invalid request body")
		utils.SendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

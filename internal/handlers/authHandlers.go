package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"smarthire/internal/models"
	"smarthire/internal/services"
	"smarthire/internal/utils"
)

type AuthHandler struct {
	authService services.AuthService
	otpService  services.OTPService
}

func NewAuthHandler(authService services.AuthService, otpService services.OTPService) *AuthHandler {
	return &AuthHandler{authService: authService, otpService: otpService}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	token, expiresAt, err := h.authService.StartSignup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, models.SignupResponse{
		Message:     "OTP sent to your email. Please verify to complete signup.",
		SignupToken: token,
		ExpiresAt:   expiresAt,
	})
}

func (h *AuthHandler) VerifySignupOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifySignupRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.authService.VerifySignupOTP(r.Context(), req.SignupToken, req.Email, req.OTP); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "OTP verified successfully. Your account has been created."})
}

func (h *AuthHandler) ResendSignupOTP(w http.ResponseWriter, r *http.Request) {
	var req models.ResendSignupRequest
	if !decode(w, r, &req) {
		return
	}

	expiresAt, err := h.authService.ResendSignupOTP(r.Context(), req.SignupToken, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "OTP resent successfully", ExpiresAt: &expiresAt})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	token, expiresAt, err := h.authService.StartPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.ForgotPasswordResponse{
		Message:    "OTP sent to your email",
		ResetToken: token,
		ExpiresAt:  expiresAt,
	})
}

func (h *AuthHandler) ResendResetOTP(w http.ResponseWriter, r *http.Request) {
	var req models.ResendResetRequest
	if !decode(w, r, &req) {
		return
	}

	expiresAt, err := h.authService.ResendResetOTP(r.Context(), req.ResetToken, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "OTP resent successfully", ExpiresAt: &expiresAt})
}

func (h *AuthHandler) VerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyResetRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.authService.VerifyResetOTP(r.Context(), req.ResetToken, req.Email, req.OTP); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "OTP verified. You can now reset your password."})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.authService.ResetPassword(r.Context(), req.ResetToken, req.Email, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "Password reset successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Login
	if !decode(w, r, &creds) {
		return
	}

	token, err := h.authService.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) RequestEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req models.EmailOTPRequest
	if !decode(w, r, &req) {
		return
	}

	expiresAt, err := h.otpService.RequestEmailOTP(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "OTP sent to your email", ExpiresAt: &expiresAt})
}

func (h *AuthHandler) VerifyEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyEmailOTPRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.otpService.VerifyEmailOTP(r.Context(), req.Email, req.OTP); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "OTP verified successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		log.Error().Msg("User ID not found in context for Me")
		utils.SendJSONError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

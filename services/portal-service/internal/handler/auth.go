package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/payload"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/usecase"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

type AuthHandler struct {
	otpUsecase usecase.OTPUsecase
	validator  *utilities.Validator
	logger     *zerolog.Logger
}

func NewAuthHandler(otpUsecase usecase.OTPUsecase, validator *utilities.Validator, logger *zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		otpUsecase: otpUsecase,
		validator:  validator,
		logger:     logger,
	}
}

// CheckEmail handles POST /api/auth/check-email.
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.CheckEmailRequest
	if err := utilities.DecodeJSON(r, &req); err != nil || h.validator.Struct(req) != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.otpUsecase.RequestOTP(r.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			utilities.WriteMessage(w, http.StatusNotFound, "Email not found in registration records")
			return
		}

		h.logger.Error().Err(err).Msg("failed to issue otp")
		utilities.WriteMessage(w, http.StatusInternalServerError, internalServerError)
		return
	}

	utilities.WriteMessage(w, http.StatusOK, "OTP sent to email")
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyOTPRequest
	if err := utilities.DecodeJSON(r, &req); err != nil || h.validator.Struct(req) != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	session, err := h.otpUsecase.VerifyOTP(r.Context(), req.Email, string(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			utilities.WriteMessage(w, http.StatusNotFound, "Email not found")
		case errors.Is(err, usecase.ErrNoPendingOTP):
			utilities.WriteMessage(w, http.StatusBadRequest, "No OTP pending verification")
		case errors.Is(err, usecase.ErrInvalidOTP):
			utilities.WriteMessage(w, http.StatusUnauthorized, "Invalid OTP")
		case errors.Is(err, usecase.ErrOTPExpired):
			utilities.WriteMessage(w, http.StatusUnauthorized, "OTP expired. Please request a new one.")
		default:
			h.logger.Error().Err(err).Msg("failed to verify otp")
			utilities.WriteMessage(w, http.StatusInternalServerError, internalServerError)
		}
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.VerifyOTPResponse{
		Message:      "Authentication successful",
		Token:        session.Token,
		RedirectPath: session.RedirectPath,
	})
}

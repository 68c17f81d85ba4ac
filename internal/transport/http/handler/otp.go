package handler

import (
	"encoding/json"
	"net/http"

	"github.com/movietrack-api/internal/application/otp"
)

// OTPHandler serves the registration endpoints: send-otp and verify-otp.
type OTPHandler struct {
	svc otp.Service
}

func NewOTPHandler(svc otp.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

func (h *OTPHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SendOTP(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent to email"})
}

func (h *OTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otp.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.VerifyOTP(r.Context(), req)
	if err != nil {
		// No 404 on this endpoint: a missing pending code is a client error.
		clientError(w, err)
		return
	}
	msg := "User registered successfully. Please confirm your email."
	if !res.ConfirmationSent {
		msg = "User registered, but the confirmation email could not be sent."
	}
	writeJSON(w, http.StatusCreated, RegistrationEnvelope{
		ID:            res.UserID,
		Email:         res.Email,
		Username:      res.Username,
		Message:       msg,
		EmailVerified: res.EmailVerified,
	})
}

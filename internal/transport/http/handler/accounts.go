package handler

import (
	"encoding/json"
	"net/http"

	"github.com/movietrack-api/internal/application/account"
	"github.com/movietrack-api/internal/pkg/validate"
	"github.com/movietrack-api/internal/transport/http/middleware"
)

// AccountHandler serves login, profile updates and the credential flows
// around them.
type AccountHandler struct {
	svc account.Service
}

func NewAccountHandler(svc account.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		clientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{Message: "Login successful", Token: token})
}

type updateNameRequest struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// UpdateName takes the name from the body; the user id comes from the body
// too for older clients, with the bearer claims as the fallback.
func (h *AccountHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	var req updateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	uid := req.UID
	if uid == "" {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			uid = claims.UserID
		}
	}
	if err := h.svc.UpdateName(r.Context(), uid, req.Name); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Name updated successfully"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		clientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password reset email sent"})
}

func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req account.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		clientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password updated successfully"})
}

type confirmEmailRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *AccountHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req confirmEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.ConfirmEmail(r.Context(), req.Email, req.Token); err != nil {
		clientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Email confirmed successfully"})
}

type googleTokenRequest struct {
	Token string `json:"token"`
}

func (h *AccountHandler) VerifyGoogleToken(w http.ResponseWriter, r *http.Request) {
	var req googleTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.VerifyGoogleToken(r.Context(), req.Token)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GoogleEnvelope{
		ID:       res.UserID,
		Email:    res.Email,
		Username: res.Username,
		Message:  "Google token verified",
	})
}

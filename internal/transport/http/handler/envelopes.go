package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/movietrack-api/internal/domain"
)

// Production suppresses server-side error detail in 5xx responses when true.
// Set once by the router before the server starts serving.
var Production bool

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RegistrationEnvelope wraps the verify-otp (registration) response.
type RegistrationEnvelope struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Message       string `json:"message"`
	EmailVerified bool   `json:"emailVerified"`
}

// LoginEnvelope wraps the login response.
type LoginEnvelope struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// GoogleEnvelope wraps the verify-google-token response. No bearer token is
// returned on this path.
type GoogleEnvelope struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a domain sentinel to its HTTP status. Endpoints whose
// contract pins not-found to 400 call clientError instead.
func httpError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if Production && status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, msg)
}

// clientError is httpError with not-found flattened to 400, for endpoints
// like verify-otp and forgot-password whose contract has no 404.
func clientError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	httpError(w, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrInvalidCredential),
		errors.Is(err, domain.ErrExpired),
		errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/clinicmate/clinicmate/internal/api/middleware"
	"github.com/clinicmate/clinicmate/internal/api/models"
	"github.com/clinicmate/clinicmate/internal/api/response"
	"github.com/clinicmate/clinicmate/internal/auth"
	"github.com/clinicmate/clinicmate/internal/clinicapi"
)

const maxBodyBytes = 64 << 10

// Authenticator logs users in and out.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, claims *auth.Claims)
}

// AuthHandler handles /login and /logout.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a Authenticator) *AuthHandler {
	return &AuthHandler{auth: a}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req clinicapi.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var fieldErrors []models.FieldError
	if strings.TrimSpace(req.Email) == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "email", Message: "The email field is required.", Code: "REQUIRED"})
	}
	if req.Password == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "password", Message: "The password field is required.", Code: "REQUIRED"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "Invalid credentials")
			return
		}
		response.InternalError(w, r, "login failed")
		return
	}

	response.JSON(w, r, http.StatusOK, clinicapi.LoginResponse{Token: token})
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), middleware.GetClaims(r.Context()))
	response.Message(w, r, "Logged out")
}

// decodeJSON reads a bounded JSON body, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return false
	}
	return true
}

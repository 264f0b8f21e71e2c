package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/clinicmate/clinicmate/internal/api/models"
	"github.com/clinicmate/clinicmate/internal/api/response"
	"github.com/clinicmate/clinicmate/internal/clinicapi"
	"github.com/clinicmate/clinicmate/internal/pushtoken"
)

// PushTokens registers and removes push-delivery tokens.
type PushTokens interface {
	Save(ctx context.Context, userID, token string) (*pushtoken.Registration, bool, error)
	Delete(ctx context.Context, userID, token string) error
}

// PushTokenHandler handles the push token endpoints.
type PushTokenHandler struct {
	tokens PushTokens
}

// NewPushTokenHandler creates a new PushTokenHandler.
func NewPushTokenHandler(tokens PushTokens) *PushTokenHandler {
	return &PushTokenHandler{tokens: tokens}
}

// Save handles POST /api/save-push-token.
func (h *PushTokenHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req clinicapi.PushTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, created, err := h.tokens.Save(r.Context(), GetUserID(r.Context()), req.Token)
	if err != nil {
		writePushTokenError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(w, r, status, models.Message{Message: "Push token saved"})
}

// Delete handles POST /api/delete-push-token.
func (h *PushTokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req clinicapi.PushTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.tokens.Delete(r.Context(), GetUserID(r.Context()), req.Token); err != nil {
		writePushTokenError(w, r, err)
		return
	}
	response.Message(w, r, "Push token deleted")
}

func writePushTokenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pushtoken.ErrInvalidToken):
		response.BadRequest(w, r, err.Error(), []models.FieldError{{Field: "token", Message: err.Error(), Code: "INVALID"}})
	case errors.Is(err, pushtoken.ErrNotFound):
		response.NotFound(w, r, "push token not found")
	default:
		response.InternalError(w, r, "failed to update push token")
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/clinicmate/clinicmate/internal/api/response"
	"github.com/clinicmate/clinicmate/internal/clinicapi"
	"github.com/clinicmate/clinicmate/internal/records"
)

// PatientRecords reads a patient's profile, files and reservations.
type PatientRecords interface {
	User(ctx context.Context, id string) (*clinicapi.User, error)
	Files(ctx context.Context, userID string) []clinicapi.MedicalFile
	Reservations(ctx context.Context, userID string) []clinicapi.Reservation
}

// PatientHandler serves the authenticated patient's data.
type PatientHandler struct {
	records PatientRecords
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(r PatientRecords) *PatientHandler {
	return &PatientHandler{records: r}
}

// User handles GET /api/user.
func (h *PatientHandler) User(w http.ResponseWriter, r *http.Request) {
	user, err := h.records.User(r.Context(), GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, records.ErrUserNotFound) {
			response.Unauthorized(w, r, "Unauthenticated.")
			return
		}
		response.InternalError(w, r, "failed to load user")
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// Files handles GET /api/patient/files.
func (h *PatientHandler) Files(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.records.Files(r.Context(), GetUserID(r.Context())))
}

// Reservations handles GET /api/reservations.
func (h *PatientHandler) Reservations(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.records.Reservations(r.Context(), GetUserID(r.Context())))
}

package screen

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
)

// AppointmentsAPI is the part of the clinic API used by the appointments screen.
type AppointmentsAPI interface {
	Reservations(ctx context.Context) ([]clinicapi.Reservation, error)
}

// AppointmentsConfig holds configuration for the appointments screen.
type AppointmentsConfig struct {
	API AppointmentsAPI

	// Location is used to display times. Defaults to time.Local.
	Location *time.Location

	Logger zerolog.Logger
}

// AppointmentItem is one entry of the appointments timeline.
type AppointmentItem struct {
	Name        string
	Label       string
	Color       string
	Date        string
	StartTime   string
	EndTime     string
	Doctor      string
	Description string
	Patients    []string

	Reservation clinicapi.Reservation
}

// Appointments is the appointments tab controller.
type Appointments struct {
	api    AppointmentsAPI
	loc    *time.Location
	logger zerolog.Logger
}

// NewAppointments creates an appointments screen controller.
func NewAppointments(cfg AppointmentsConfig) *Appointments {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Appointments{api: cfg.API, loc: loc, logger: cfg.Logger}
}

// Mount loads upcoming reservations. A failure is logged and leaves the list
// empty; the error is returned for the caller's exit status only.
func (s *Appointments) Mount(ctx context.Context) ([]AppointmentItem, error) {
	reservations, err := s.api.Reservations(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("error fetching reservations")
		return []AppointmentItem{}, err
	}

	items := make([]AppointmentItem, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, s.item(r))
	}
	return items, nil
}

func (s *Appointments) item(r clinicapi.Reservation) AppointmentItem {
	patients := make([]string, 0, len(r.Patients))
	for _, p := range r.Patients {
		patients = append(patients, p.Name)
	}
	return AppointmentItem{
		Name:        r.Name,
		Label:       r.Label,
		Color:       LabelColor(r.Label),
		Date:        FormatDate(r.StartDatetime, s.loc),
		StartTime:   FormatTime(r.StartDatetime, s.loc),
		EndTime:     FormatTime(r.EndDatetime, s.loc),
		Doctor:      r.Doctor.Name,
		Description: r.Description,
		Patients:    patients,
		Reservation: r,
	}
}

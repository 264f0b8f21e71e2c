package records

import (
	"time"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
)

const datetimeLayout = "2006-01-02 15:04:05"

// DefaultSeed returns demo accounts with appointments relative to now.
// Every demo password is "password".
func DefaultSeed(now time.Time) []SeedUser {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	at := func(days, hour, minute int) string {
		return day.AddDate(0, 0, days).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute).Format(datetimeLayout)
	}

	house := clinicapi.Doctor{ID: "10", Name: "Dr. Gregory House"}
	grey := clinicapi.Doctor{ID: "11", Name: "Dr. Meredith Grey"}

	return []SeedUser{
		{
			Name:          "Jane Mary Doe",
			Email:         "jane@clinicmate.test",
			Password:      "password",
			LicenseNumber: "PAT-000123",
			Contact:       "+31 6 1234 5678",
			Address:       "Keizersgracht 1, Amsterdam",
			Files: []clinicapi.MedicalFile{
				{ID: "1", Name: "Blood test", Date: day.AddDate(0, 0, -14).Format("2006-01-02"), Description: "Complete blood count", FileName: "jane-cbc.pdf", Doctor: &grey},
				{ID: "2", Name: "Chest X-ray", Date: day.AddDate(0, 0, -3).Format("2006-01-02"), Description: "PA and lateral views", FileName: "jane-xray.png", Doctor: &house},
			},
			Reservations: []clinicapi.Reservation{
				{ID: "1", StartDatetime: at(1, 9, 0), EndDatetime: at(1, 9, 30), Name: "Annual checkup", Label: "Examination", Description: "General practitioner", Doctor: grey, Patients: []clinicapi.Patient{{ID: "1", Name: "Jane Mary Doe"}}},
				{ID: "2", StartDatetime: at(3, 14, 15), EndDatetime: at(3, 15, 0), Name: "X-ray review", Label: "Follow-up", Description: "Diagnostics", Doctor: house, Patients: []clinicapi.Patient{{ID: "1", Name: "Jane Mary Doe"}}},
				{ID: "3", StartDatetime: at(10, 11, 0), EndDatetime: at(10, 12, 0), Name: "Minor procedure", Label: "Procedure", Description: "Outpatient surgery", Doctor: house, Patients: []clinicapi.Patient{{ID: "1", Name: "Jane Mary Doe"}}},
			},
		},
		{
			Name:     "John Smith",
			Email:    "john@clinicmate.test",
			Password: "password",
			Files: []clinicapi.MedicalFile{
				{ID: "3", Name: "Prescription", Date: day.Format("2006-01-02"), FileName: "john-prescription.pdf"},
			},
			Reservations: []clinicapi.Reservation{
				{ID: "4", StartDatetime: at(2, 8, 45), EndDatetime: at(2, 9, 0), Name: "Consultation", Label: "Consultation", Doctor: grey, Patients: []clinicapi.Patient{{ID: "2", Name: "John Smith"}}},
			},
		},
	}
}

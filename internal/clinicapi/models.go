// Package clinicapi is the HTTP client for the clinic REST service.
package clinicapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ID is a record identifier. The service emits numeric ids; strings are
// accepted as well.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("id must be a number or string")
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// User is the authenticated user's profile. Any field may be empty.
type User struct {
	ID            ID     `json:"id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	LicenseNumber string `json:"license_number"`
	Contact       string `json:"contact"`
	Address       string `json:"address"`
}

// Doctor is the practitioner attached to a record.
type Doctor struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
}

// MedicalFile is a document shared with the patient.
type MedicalFile struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	FileName    string  `json:"file_name"`
	Doctor      *Doctor `json:"doctor,omitempty"`
}

// Patient is an attendee of a reservation.
type Patient struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Reservation is an appointment slot.
type Reservation struct {
	ID            ID        `json:"id,omitempty"`
	StartDatetime string    `json:"start_datetime"`
	EndDatetime   string    `json:"end_datetime"`
	Name          string    `json:"name"`
	Label         string    `json:"label"`
	Description   string    `json:"description"`
	Doctor        Doctor    `json:"doctor"`
	Patients      []Patient `json:"patients"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /login.
type LoginResponse struct {
	Token string `json:"token"`
}

// PushTokenRequest is the body of the push token endpoints.
type PushTokenRequest struct {
	Token string `json:"token"`
}

// errorBody covers the error shapes the service and the dev backend emit.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
}

func (b errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Detail != "":
		return b.Detail
	case b.Error != "":
		return b.Error
	default:
		return b.Title
	}
}

// Package records holds the patient records served by the dev backend.
package records

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
)

// Directory errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrFileNotFound       = errors.New("file not found")
)

// FilePrefix is the storage folder named in download URLs.
const FilePrefix = "medical_files/"

// User is a patient account.
type User struct {
	Profile      clinicapi.User
	PasswordHash []byte
}

// SeedUser describes an account to load at startup.
type SeedUser struct {
	Name          string
	Email         string
	Password      string
	LicenseNumber string
	Contact       string
	Address       string
	Files         []clinicapi.MedicalFile
	Reservations  []clinicapi.Reservation
}

// Directory is an in-memory store of accounts, files and reservations.
type Directory struct {
	mu           sync.RWMutex
	users        map[string]*User
	byEmail      map[string]string
	files        map[string][]clinicapi.MedicalFile
	reservations map[string][]clinicapi.Reservation
}

// NewDirectory hashes the seed passwords with the given bcrypt cost and
// builds the directory. A zero cost uses bcrypt.DefaultCost.
func NewDirectory(seed []SeedUser, cost int) (*Directory, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	d := &Directory{
		users:        make(map[string]*User),
		byEmail:      make(map[string]string),
		files:        make(map[string][]clinicapi.MedicalFile),
		reservations: make(map[string][]clinicapi.Reservation),
	}

	for i, s := range seed {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		if email == "" || s.Password == "" {
			return nil, fmt.Errorf("seed user %d: email and password are required", i)
		}
		if _, dup := d.byEmail[email]; dup {
			return nil, fmt.Errorf("seed user %d: duplicate email %s", i, email)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", email, err)
		}

		id := strconv.Itoa(i + 1)
		d.users[id] = &User{
			Profile: clinicapi.User{
				ID:            clinicapi.ID(id),
				Name:          s.Name,
				Email:         email,
				LicenseNumber: s.LicenseNumber,
				Contact:       s.Contact,
				Address:       s.Address,
			},
			PasswordHash: hash,
		}
		d.byEmail[email] = id
		d.files[id] = append([]clinicapi.MedicalFile(nil), s.Files...)
		d.reservations[id] = append([]clinicapi.Reservation(nil), s.Reservations...)
	}

	return d, nil
}

// Authenticate checks credentials and returns the user id.
func (d *Directory) Authenticate(_ context.Context, email, password string) (string, error) {
	d.mu.RLock()
	id, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	var hash []byte
	if ok {
		hash = d.users[id].PasswordHash
	}
	d.mu.RUnlock()

	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return id, nil
}

// User returns a user's profile.
func (d *Directory) User(_ context.Context, id string) (*clinicapi.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	profile := u.Profile
	return &profile, nil
}

// Files returns the user's medical files.
func (d *Directory) Files(_ context.Context, userID string) []clinicapi.MedicalFile {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]clinicapi.MedicalFile, len(d.files[userID]))
	copy(out, d.files[userID])
	return out
}

// Reservations returns the user's reservations.
func (d *Directory) Reservations(_ context.Context, userID string) []clinicapi.Reservation {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]clinicapi.Reservation, len(d.reservations[userID]))
	copy(out, d.reservations[userID])
	return out
}

// FindFile resolves a download path such as "medical_files/cbc.pdf".
func (d *Directory) FindFile(_ context.Context, path string) (*clinicapi.MedicalFile, error) {
	name, ok := strings.CutPrefix(path, FilePrefix)
	if !ok || name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return nil, ErrFileNotFound
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, files := range d.files {
		for _, f := range files {
			if f.FileName == name {
				found := f
				return &found, nil
			}
		}
	}
	return nil, ErrFileNotFound
}

package screen_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
	"github.com/clinicmate/clinicmate/internal/session"
)

type alertRecord struct {
	Title   string
	Message string
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []alertRecord
}

func (a *recordingAlerter) Alert(title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alertRecord{Title: title, Message: message})
}

func (a *recordingAlerter) all() []alertRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]alertRecord(nil), a.alerts...)
}

// fakeAPI implements every screen API interface.
type fakeAPI struct {
	loginToken string
	loginErr   error

	user    *clinicapi.User
	userErr error

	files    []clinicapi.MedicalFile
	filesErr error

	reservations    []clinicapi.Reservation
	reservationsErr error

	savePushErr   error
	deletePushErr error
	logoutErr     error

	calls []string
	saved []string
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (string, error) {
	f.calls = append(f.calls, "login:"+email)
	return f.loginToken, f.loginErr
}

func (f *fakeAPI) SavePushToken(_ context.Context, pushToken string) error {
	f.calls = append(f.calls, "save-push-token")
	f.saved = append(f.saved, pushToken)
	return f.savePushErr
}

func (f *fakeAPI) DeletePushToken(_ context.Context, pushToken string) error {
	f.calls = append(f.calls, "delete-push-token:"+pushToken)
	return f.deletePushErr
}

func (f *fakeAPI) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	return f.logoutErr
}

func (f *fakeAPI) User(context.Context) (*clinicapi.User, error) {
	f.calls = append(f.calls, "user")
	return f.user, f.userErr
}

func (f *fakeAPI) MedicalFiles(context.Context) ([]clinicapi.MedicalFile, error) {
	f.calls = append(f.calls, "files")
	return f.files, f.filesErr
}

func (f *fakeAPI) Reservations(context.Context) ([]clinicapi.Reservation, error) {
	f.calls = append(f.calls, "reservations")
	return f.reservations, f.reservationsErr
}

func (f *fakeAPI) DownloadURL(fileName string) string {
	return "http://clinic.test/api/download?url=medical_files/" + fileName
}

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) OpenURL(_ context.Context, url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

func newSession(seed map[string]string) (*session.Service, *session.InMemoryStore) {
	store := session.NewInMemoryStore(seed)
	return session.NewService(session.ServiceConfig{Store: store, Logger: zerolog.Nop()}), store
}

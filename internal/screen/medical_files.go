package screen

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
	"github.com/clinicmate/clinicmate/internal/nav"
)

// MedicalFilesAPI is the part of the clinic API used by the medical files screen.
type MedicalFilesAPI interface {
	User(ctx context.Context) (*clinicapi.User, error)
	MedicalFiles(ctx context.Context) ([]clinicapi.MedicalFile, error)
	DownloadURL(fileName string) string
}

// MedicalFilesConfig holds configuration for the medical files screen.
type MedicalFilesConfig struct {
	API       MedicalFilesAPI
	Session   Session
	Navigator nav.Navigator
	Alerter   Alerter
	Opener    URLOpener
	Logger    zerolog.Logger
}

// FileItem is one row of the medical files list.
type FileItem struct {
	ID          string
	Name        string
	Date        string
	Description string
	FileName    string
	Doctor      string
}

// MedicalFilesView is the loaded screen.
type MedicalFilesView struct {
	User  clinicapi.User
	Files []FileItem
}

// MedicalFiles is the home tab controller.
type MedicalFiles struct {
	api       MedicalFilesAPI
	session   Session
	navigator nav.Navigator
	alerter   Alerter
	opener    URLOpener
	logger    zerolog.Logger
}

// NewMedicalFiles creates a medical files screen controller.
func NewMedicalFiles(cfg MedicalFilesConfig) *MedicalFiles {
	return &MedicalFiles{
		api:       cfg.API,
		session:   cfg.Session,
		navigator: cfg.Navigator,
		alerter:   cfg.Alerter,
		opener:    cfg.Opener,
		logger:    cfg.Logger,
	}
}

// Mount loads the user and their files. Without a stored token it moves to
// Login. Any failure is alerted and also moves to Login; nothing is retried.
func (s *MedicalFiles) Mount(ctx context.Context) (*MedicalFilesView, error) {
	view, err := s.load(ctx)
	if errors.Is(err, ErrNoSession) {
		s.navigator.Navigate(nav.RouteLogin)
		return nil, err
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch medical files")
		alert(s.alerter, TitleError, MsgFetchFailed)
		s.navigator.Navigate(nav.RouteLogin)
		return nil, err
	}
	return view, nil
}

func (s *MedicalFiles) load(ctx context.Context) (*MedicalFilesView, error) {
	token, err := s.session.AuthToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if token == "" {
		return nil, ErrNoSession
	}

	user, err := s.api.User(ctx)
	if err != nil {
		return nil, err
	}

	files, err := s.api.MedicalFiles(ctx)
	if err != nil {
		return nil, err
	}

	view := &MedicalFilesView{User: *user, Files: make([]FileItem, 0, len(files))}
	for _, f := range files {
		item := FileItem{
			ID:          string(f.ID),
			Name:        f.Name,
			Date:        f.Date,
			Description: f.Description,
			FileName:    f.FileName,
		}
		if f.Doctor != nil {
			item.Doctor = f.Doctor.Name
		}
		view.Files = append(view.Files, item)
	}
	return view, nil
}

// Download opens the file's download URL with the platform handler and
// returns the URL.
func (s *MedicalFiles) Download(ctx context.Context, fileName string) (string, error) {
	url := s.api.DownloadURL(fileName)
	if s.opener == nil {
		return url, nil
	}
	if err := s.opener.OpenURL(ctx, url); err != nil {
		s.logger.Error().Err(err).Str("file_name", fileName).Msg("failed to open download url")
		return url, err
	}
	return url, nil
}

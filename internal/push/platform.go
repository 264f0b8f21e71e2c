// Package push registers the device for push notifications.
package push

import "context"

// PermissionStatus is the notification permission state reported by the platform.
type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// Importance is a notification channel importance level.
type Importance int

const (
	ImportanceDefault Importance = 3
	ImportanceHigh    Importance = 4
	ImportanceMax     Importance = 5
)

// Channel is an Android notification channel.
type Channel struct {
	ID               string
	Name             string
	Importance       Importance
	VibrationPattern []int
	LightColor       string
}

// DefaultChannel is configured before registration on Android.
var DefaultChannel = Channel{
	ID:               "default",
	Name:             "default",
	Importance:       ImportanceMax,
	VibrationPattern: []int{0, 250, 250, 250},
	LightColor:       "#FF231F7C",
}

// Platform is the device notification service.
type Platform interface {
	// IsDevice reports whether this is a physical device able to receive pushes.
	IsDevice() bool

	// OS returns the platform name, e.g. "ios" or "android".
	OS() string

	SetNotificationChannel(ctx context.Context, ch Channel) error
	Permission(ctx context.Context) (PermissionStatus, error)
	RequestPermission(ctx context.Context) (PermissionStatus, error)

	// PushToken obtains the push-delivery token for projectID.
	PushToken(ctx context.Context, projectID string) (string, error)
}

// Alerter shows a message to the user.
type Alerter interface {
	Alert(title, message string)
}

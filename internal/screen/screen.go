// Package screen implements the client screens as controllers. A controller
// issues API calls, updates the session and produces view models,
// navigation requests and alerts. Rendering is left to the caller.
package screen

import (
	"context"
	"errors"
)

// ErrNoSession is returned by a screen that requires a stored token.
var ErrNoSession = errors.New("no stored session")

// Alerter shows a titled message to the user.
type Alerter interface {
	Alert(title, message string)
}

// URLOpener hands a URL to the platform handler.
type URLOpener interface {
	OpenURL(ctx context.Context, url string) error
}

// Session is the token storage used by screens.
type Session interface {
	AuthToken(ctx context.Context) (string, error)
	SetAuthToken(ctx context.Context, token string) error
	PushToken(ctx context.Context) (string, error)
	SetPushToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Alert texts.
const (
	TitleValidationError = "Validation Error"
	TitleLoginFailed     = "Login failed"
	TitleError           = "Error"

	MsgEmptyCredentials = "Email and password cannot be empty"
	MsgInvalidEmail     = "Invalid email format"
	MsgInvalidLogin     = "Invalid credentials"
	MsgFetchFailed      = "Failed to fetch data. Please try again later."
)

func alert(a Alerter, title, message string) {
	if a != nil {
		a.Alert(title, message)
	}
}

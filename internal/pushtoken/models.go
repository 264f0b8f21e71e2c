// Package pushtoken stores the push-delivery tokens registered by patients.
package pushtoken

import (
	"errors"
	"time"
)

// MaxTokenLength bounds accepted tokens.
const MaxTokenLength = 512

// Errors.
var (
	ErrNotFound     = errors.New("push token not found")
	ErrInvalidToken = errors.New("push token must be a non-empty string")
)

// Registration binds a push-delivery token to a user.
type Registration struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenLast4 returns the last 4 characters of the token for logs.
func (r *Registration) TokenLast4() string {
	if len(r.Token) < 4 {
		return r.Token
	}
	return r.Token[len(r.Token)-4:]
}

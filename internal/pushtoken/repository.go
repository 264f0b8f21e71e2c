package pushtoken

import "context"

// Repository defines push token persistence.
type Repository interface {
	// Upsert stores reg keyed by token; a token moves to the latest user.
	// Returns true if a new registration was created.
	Upsert(ctx context.Context, reg *Registration) (created bool, err error)

	// Delete removes a user's token. Returns ErrNotFound if absent.
	Delete(ctx context.Context, userID, token string) error

	// ListByUser returns a user's registrations, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Registration, error)
}

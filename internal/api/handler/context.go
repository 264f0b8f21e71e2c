package handler

import (
	"context"

	"github.com/clinicmate/clinicmate/internal/api/middleware"
)

// GetUserID returns the authenticated user ID from the context.
func GetUserID(ctx context.Context) string {
	return middleware.GetUserID(ctx)
}

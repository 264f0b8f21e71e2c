package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/clinicmate/clinicmate/internal/api/models"
	"github.com/clinicmate/clinicmate/internal/auth"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

type claimsKey struct{}

// Auth rejects requests without a valid bearer token with 401 and stores
// the token claims in the request context.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeUnauthorized(w, r, "Unauthenticated.")
				return
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					writeUnauthorized(w, r, "token has expired")
				case errors.Is(err, auth.ErrTokenRevoked):
					writeUnauthorized(w, r, "token has been revoked")
				default:
					writeUnauthorized(w, r, "Unauthenticated.")
				}
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Bearer <token>", scheme case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// writeUnauthorized lives here rather than in response to avoid an import cycle.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	problem := models.NewProblem(http.StatusUnauthorized, GetRequestID(r.Context()), detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// GetClaims returns the authenticated token claims, or nil.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// GetUserID returns the authenticated user ID, or "".
func GetUserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// WithClaims stores claims in ctx. Used by handler tests.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

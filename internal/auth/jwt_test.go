package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicmate/clinicmate/internal/auth"
)

func newJWT(key string, now func() time.Time) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: key,
		Issuer:     "clinicstub",
		TTL:        time.Hour,
		Now:        now,
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newJWT("test-secret-key-for-testing-only", nil)

	token, issued, err := svc.Issue("42")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "clinicstub", claims.Issuer)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := newJWT("k", nil)

	_, a, err := svc.Issue("1")
	require.NoError(t, err)
	_, b, err := svc.Issue("1")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newJWT("k", nil)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestJWTService_WrongSigningKey(t *testing.T) {
	token, _, err := newJWT("key-one", nil).Issue("1")
	require.NoError(t, err)

	_, err = newJWT("key-two", nil).Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_WrongIssuer(t *testing.T) {
	other := auth.NewJWTService(auth.JWTConfig{SigningKey: "k", Issuer: "elsewhere"})
	token, _, err := other.Issue("1")
	require.NoError(t, err)

	_, err = newJWT("k", nil).Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	now := time.Now()
	issuer := newJWT("k", func() time.Time { return now.Add(-2 * time.Hour) })
	token, _, err := issuer.Issue("1")
	require.NoError(t, err)

	_, err = newJWT("k", func() time.Time { return now }).Validate(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "clinicstub",
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "1",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newJWT("k", nil).Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

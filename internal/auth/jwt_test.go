package auth

import (
	"testing"
	"time"

	"salesreport-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func parseClaims(t *testing.T, token, secret string) *JWTCustomClaims {
	t.Helper()

	claims := &JWTCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	branchID := uint(3)
	user := &models.User{
		ID:       42,
		Username: "kadikoy",
		Role:     models.RoleUser,
		BranchID: &branchID,
	}

	token, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	claims := parseClaims(t, token, testSecret)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "kadikoy", claims.Username)
	require.Equal(t, models.RoleUser, claims.Role)
	require.NotNil(t, claims.BranchID)
	require.Equal(t, uint(3), *claims.BranchID)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestGenerateTokenAdminHasNoBranch(t *testing.T) {
	user := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}

	token, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	claims := parseClaims(t, token, testSecret)
	require.Equal(t, models.RoleAdmin, claims.Role)
	require.Nil(t, claims.BranchID)
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}

	token, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &JWTCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("another-secret-another-secret-xx"), nil
	})
	require.Error(t, err)
}

func TestBcryptMismatch(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	require.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("correct horse")))
	require.Error(t, bcrypt.CompareHashAndPassword(hash, []byte("battery staple")))
}

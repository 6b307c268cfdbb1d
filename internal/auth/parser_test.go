package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/workhub-contracts/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseValidToken(t *testing.T) {
	userID := uuid.New()
	raw := signToken(t, testSecret, Claims{
		UserID: userID.String(),
		Role:   "company",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	principal, err := NewParser(testSecret).Parse(raw)
	require.NoError(t, err)
	require.Equal(t, userID, principal.UserID)
	require.Equal(t, model.RoleCompany, principal.Role)
}

func TestParseRejectsBadTokens(t *testing.T) {
	parser := NewParser(testSecret)
	userID := uuid.NewString()

	t.Run("garbage", func(t *testing.T) {
		_, err := parser.Parse("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		raw := signToken(t, "other-secret", Claims{UserID: userID, Role: "COMPANY"})
		_, err := parser.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		raw := signToken(t, testSecret, Claims{
			UserID: userID,
			Role:   "FREELANCER",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})
		_, err := parser.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed user id", func(t *testing.T) {
		raw := signToken(t, testSecret, Claims{UserID: "42", Role: "COMPANY"})
		_, err := parser.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParse_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, Claims{
		UserID: userID.String(),
		Role:   "collector",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	principal, err := NewParser(testSecret).Parse(token)

	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, model.RoleCollector, principal.Role)
}

func TestParse_SubjectFallback(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
	})

	principal, err := NewParser(testSecret).Parse(token)

	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.True(t, principal.IsAdmin())
}

func TestParse_Rejects(t *testing.T) {
	userID := uuid.New().String()
	cases := map[string]string{
		"wrong secret": signToken(t, "other", Claims{UserID: userID, Role: "admin"}),
		"unknown role": signToken(t, testSecret, Claims{UserID: userID, Role: "driver"}),
		"bad user id":  signToken(t, testSecret, Claims{UserID: "nope", Role: "admin"}),
		"expired": signToken(t, testSecret, Claims{
			UserID:           userID,
			Role:             "admin",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		}),
		"garbage": "not-a-token",
	}

	parser := NewParser(testSecret)
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parser.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

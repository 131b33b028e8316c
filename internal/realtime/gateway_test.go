package realtime

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/ripplefeed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims *models.JwtCustomClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestGateway_ParseToken(t *testing.T) {
	g := NewGateway(NewRegistry(), testSecret, zap.NewNop())

	tokenString := signToken(t, testSecret, &models.JwtCustomClaims{
		UserID: 42,
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := g.parseToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestGateway_ParseToken_WrongSecret(t *testing.T) {
	g := NewGateway(NewRegistry(), testSecret, zap.NewNop())

	tokenString := signToken(t, "other-secret", &models.JwtCustomClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := g.parseToken(tokenString)
	assert.Error(t, err)
}

func TestGateway_ParseToken_Expired(t *testing.T) {
	g := NewGateway(NewRegistry(), testSecret, zap.NewNop())

	tokenString := signToken(t, testSecret, &models.JwtCustomClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := g.parseToken(tokenString)
	assert.Error(t, err)
}

func TestGateway_ParseToken_ZeroUserID(t *testing.T) {
	g := NewGateway(NewRegistry(), testSecret, zap.NewNop())

	tokenString := signToken(t, testSecret, &models.JwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := g.parseToken(tokenString)
	assert.Error(t, err)
}

func TestGateway_ParseToken_Garbage(t *testing.T) {
	g := NewGateway(NewRegistry(), testSecret, zap.NewNop())

	_, err := g.parseToken("not-a-jwt")
	assert.Error(t, err)
}

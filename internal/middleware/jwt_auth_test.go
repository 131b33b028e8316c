package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/ripplefeed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, userID uint) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func invokeMiddleware(t *testing.T, secret, authHeader string) (uint, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var gotUserID uint
	handler := JWTAuthMiddleware(secret)(func(c echo.Context) error {
		gotUserID, _ = c.Get(ContextUserIDKey).(uint)
		return c.NoContent(http.StatusOK)
	})
	return gotUserID, handler(c)
}

func TestJWTAuthMiddleware_SetsIdentityFromConfiguredSecret(t *testing.T) {
	token := signTestToken(t, "configured-secret", 42)

	userID, err := invokeMiddleware(t, "configured-secret", "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestJWTAuthMiddleware_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	token := signTestToken(t, "some-other-secret", 42)

	_, err := invokeMiddleware(t, "configured-secret", "Bearer "+token)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	_, err := invokeMiddleware(t, "configured-secret", "")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	_, err := invokeMiddleware(t, "configured-secret", "Token abc")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

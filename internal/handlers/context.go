package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ripplefeed/backend/internal/middleware"
)

// currentUserID extracts the authenticated user's ID set by the JWT
// middleware. A missing identity aborts the calling operation before any
// mutation or notification logic runs.
func currentUserID(c echo.Context) (uint, error) {
	id, ok := c.Get(middleware.ContextUserIDKey).(uint)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

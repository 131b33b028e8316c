package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ripplefeed/backend/internal/models"
	"github.com/ripplefeed/backend/internal/notifier"
	"github.com/ripplefeed/backend/internal/repositories"
)

// FollowHandler handles HTTP requests related to follows
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	notifier         *notifier.Service
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notif *notifier.Service) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		notifier:         notif,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:user_id/follow", h.FollowUser)
	g.DELETE("/users/:user_id/follow", h.UnfollowUser)
	g.GET("/users/:user_id/followers", h.GetFollowers)
	g.GET("/users/:user_id/following", h.GetFollowing)
}

// FollowUser handles following another user and notifies the target.
// Unfollowing never notifies.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	targetID, err := parseUserIDParam(c, "user_id")
	if err != nil {
		return err
	}

	if targetID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	// Verify target user exists
	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusConflict, "Already following this user")
	}

	follow := &models.Follow{
		FollowerID:  currentUserID,
		FollowingID: targetID,
	}

	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err == nil {
		go h.notifier.UserFollowed(targetID, actor)
	}

	return c.JSON(http.StatusCreated, follow)
}

// UnfollowUser handles unfollowing a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	targetID, err := parseUserIDParam(c, "user_id")
	if err != nil {
		return err
	}

	if err := h.followRepository.DeleteFollow(currentUserID, targetID); err != nil {
		if err.Error() == "follow relationship not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Not following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetFollowers retrieves the followers of a user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	targetID, err := parseUserIDParam(c, "user_id")
	if err != nil {
		return err
	}

	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	followers, err := h.followRepository.GetFollowers(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.UserCompact, 0, len(followers))
	for _, u := range followers {
		compact = append(compact, u.ToCompact())
	}

	return c.JSON(http.StatusOK, echo.Map{"followers": compact, "count": len(compact)})
}

// GetFollowing retrieves the users a user is following
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	targetID, err := parseUserIDParam(c, "user_id")
	if err != nil {
		return err
	}

	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	following, err := h.followRepository.GetFollowing(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.UserCompact, 0, len(following))
	for _, u := range following {
		compact = append(compact, u.ToCompact())
	}

	return c.JSON(http.StatusOK, echo.Map{"following": compact, "count": len(compact)})
}

func parseUserIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return uint(id), nil
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ripplefeed/backend/internal/models"
	"github.com/ripplefeed/backend/internal/repositories"
)

// FeedHandler serves the personalized timeline: the caller's own posts plus
// posts from everyone they follow, newest first.
type FeedHandler struct {
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
	likeRepository   repositories.LikeRepository
	userRepository   repositories.UserRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, followRepo repositories.FollowRepository, likeRepo repositories.LikeRepository, userRepo repositories.UserRepository) *FeedHandler {
	return &FeedHandler{
		postRepository:   postRepo,
		followRepository: followRepo,
		likeRepository:   likeRepo,
		userRepository:   userRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// FeedItem is a post enriched with its author and the caller's like state
type FeedItem struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
}

// GetFeed retrieves the authenticated user's feed with pagination
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs := append(followingIDs, currentUserID)

	ctx := c.Request().Context()
	posts, err := h.postRepository.GetPostsByAuthorIDs(ctx, authorIDs, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	total, err := h.postRepository.CountPostsByAuthorIDs(ctx, authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authors := make(map[uint]models.UserCompact)
	items := make([]FeedItem, 0, len(posts))
	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			user, err := h.userRepository.GetUserByID(post.AuthorID)
			if err != nil {
				continue
			}
			author = user.ToCompact()
			authors[post.AuthorID] = author
		}

		isLiked, err := h.likeRepository.HasUserLikedPost(post.ID.Hex(), currentUserID)
		if err != nil {
			isLiked = false
		}

		items = append(items, FeedItem{Post: post, Author: author, IsLiked: isLiked})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"posts": items,
		"meta": echo.Map{
			"total": total,
			"skip":  skip,
			"limit": limit,
		},
	})
}

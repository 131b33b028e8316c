package notifier

import (
	"errors"
	"testing"

	"github.com/ripplefeed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) CreateComment(comment *models.Comment) error {
	return m.Called(comment).Error(0)
}
func (m *mockCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	args := m.Called(id)
	if c, _ := args.Get(0).(*models.Comment); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCommentRepo) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	args := m.Called(postID)
	return args.Get(0).([]models.Comment), args.Error(1)
}
func (m *mockCommentRepo) GetDistinctCommenterIDs(postID string) ([]uint, error) {
	args := m.Called(postID)
	if ids, _ := args.Get(0).([]uint); ids != nil {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCommentRepo) UpdateComment(comment *models.Comment) error {
	return m.Called(comment).Error(0)
}
func (m *mockCommentRepo) DeleteComment(id uint) error {
	return m.Called(id).Error(0)
}

type mockLikeRepo struct{ mock.Mock }

func (m *mockLikeRepo) CreateLike(like *models.Like) error {
	return m.Called(like).Error(0)
}
func (m *mockLikeRepo) DeleteLike(postID string, userID uint) error {
	return m.Called(postID, userID).Error(0)
}
func (m *mockLikeRepo) GetLikerIDs(postID string) ([]uint, error) {
	args := m.Called(postID)
	if ids, _ := args.Get(0).([]uint); ids != nil {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	args := m.Called(postID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockLikeRepo) HasUserLikedPost(postID string, userID uint) (bool, error) {
	args := m.Called(postID, userID)
	return args.Bool(0), args.Error(1)
}

type mockFollowRepo struct{ mock.Mock }

func (m *mockFollowRepo) CreateFollow(follow *models.Follow) error {
	return m.Called(follow).Error(0)
}
func (m *mockFollowRepo) DeleteFollow(followerID, followingID uint) error {
	return m.Called(followerID, followingID).Error(0)
}
func (m *mockFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	args := m.Called(followerID, followingID)
	return args.Bool(0), args.Error(1)
}
func (m *mockFollowRepo) GetFollowers(userID uint) ([]models.User, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *mockFollowRepo) GetFollowing(userID uint) ([]models.User, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *mockFollowRepo) GetFollowerIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if ids, _ := args.Get(0).([]uint); ids != nil {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if ids, _ := args.Get(0).([]uint); ids != nil {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFollowRepo) GetFollowersCount(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockFollowRepo) GetFollowingCount(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// --- tests ---

func TestResolver_CommentEcho(t *testing.T) {
	comments := &mockCommentRepo{}
	comments.On("GetDistinctCommenterIDs", "p1").Return([]uint{2, 3, 5, 9}, nil)

	r := NewResolver(comments, &mockLikeRepo{}, &mockFollowRepo{})

	// Actor 5 comments on a post authored by 9: prior commenters minus the
	// actor and the author.
	got, err := r.CommentEcho("p1", 5, 9)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{2, 3}, got)
}

func TestResolver_CommentEcho_NoPriorCommenters(t *testing.T) {
	comments := &mockCommentRepo{}
	comments.On("GetDistinctCommenterIDs", "p1").Return([]uint{5}, nil)

	r := NewResolver(comments, &mockLikeRepo{}, &mockFollowRepo{})

	got, err := r.CommentEcho("p1", 5, 9)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolver_Engaged_UnionDeduplicated(t *testing.T) {
	comments := &mockCommentRepo{}
	likes := &mockLikeRepo{}
	// B and C commented; C and D liked. A edits their own post.
	comments.On("GetDistinctCommenterIDs", "p1").Return([]uint{2, 3}, nil)
	likes.On("GetLikerIDs", "p1").Return([]uint{3, 4}, nil)

	r := NewResolver(comments, likes, &mockFollowRepo{})

	got, err := r.Engaged("p1", 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{2, 3, 4}, got)
}

func TestResolver_Engaged_ExcludesActor(t *testing.T) {
	comments := &mockCommentRepo{}
	likes := &mockLikeRepo{}
	// The author both commented on and liked their own post.
	comments.On("GetDistinctCommenterIDs", "p1").Return([]uint{1, 2}, nil)
	likes.On("GetLikerIDs", "p1").Return([]uint{1}, nil)

	r := NewResolver(comments, likes, &mockFollowRepo{})

	got, err := r.Engaged("p1", 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{2}, got)
}

func TestResolver_Engaged_PropagatesError(t *testing.T) {
	comments := &mockCommentRepo{}
	comments.On("GetDistinctCommenterIDs", "p1").Return(nil, errors.New("db down"))

	r := NewResolver(comments, &mockLikeRepo{}, &mockFollowRepo{})

	_, err := r.Engaged("p1", 1)
	assert.Error(t, err)
}

func TestResolver_Followers(t *testing.T) {
	follows := &mockFollowRepo{}
	follows.On("GetFollowerIDs", uint(1)).Return([]uint{4, 5, 6}, nil)

	r := NewResolver(&mockCommentRepo{}, &mockLikeRepo{}, follows)

	got, err := r.Followers(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{4, 5, 6}, got)
}

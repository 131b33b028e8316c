package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/ripplefeed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return db
}

func TestNotificationRepository_CreateAndGetByID(t *testing.T) {
	repo := NewPostgresNotificationRepository(setupNotificationDB(t))

	n := &models.Notification{
		RecipientID: 1,
		SenderID:    2,
		Kind:        models.NotificationLike,
		PostID:      "p1",
		Message:     "bob liked your post",
	}
	require.NoError(t, repo.CreateNotification(n))
	require.NotZero(t, n.ID)

	got, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.RecipientID)
	assert.Equal(t, models.NotificationLike, got.Kind)
	assert.False(t, got.IsRead)
}

func TestNotificationRepository_GetByID_NotFound(t *testing.T) {
	repo := NewPostgresNotificationRepository(setupNotificationDB(t))

	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNotificationRepository_GetByRecipientID_NewestFirst(t *testing.T) {
	repo := NewPostgresNotificationRepository(setupNotificationDB(t))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateNotification(&models.Notification{
			RecipientID: 1,
			Kind:        models.NotificationComment,
			Message:     fmt.Sprintf("message %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Another user's notification must not leak into the listing.
	require.NoError(t, repo.CreateNotification(&models.Notification{
		RecipientID: 2,
		Kind:        models.NotificationComment,
		Message:     "not yours",
		CreatedAt:   base,
	}))

	notifications, total, err := repo.GetByRecipientID(1, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, notifications, 3)
	assert.Equal(t, "message 2", notifications[0].Message)
	assert.Equal(t, "message 0", notifications[2].Message)
}

func TestNotificationRepository_GetByRecipientID_Pagination(t *testing.T) {
	repo := NewPostgresNotificationRepository(setupNotificationDB(t))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateNotification(&models.Notification{
			RecipientID: 1,
			Kind:        models.NotificationNewPost,
			Message:     fmt.Sprintf("message %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page1, total, err := repo.GetByRecipientID(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	assert.Equal(t, "message 4", page1[0].Message)

	page2, _, err := repo.GetByRecipientID(1, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "message 2", page2[0].Message)
}

func TestNotificationRepository_UnreadCountAndMarkAsRead(t *testing.T) {
	repo := NewPostgresNotificationRepository(setupNotificationDB(t))

	a := &models.Notification{RecipientID: 1, Kind: models.NotificationLike, Message: "one"}
	b := &models.Notification{RecipientID: 1, Kind: models.NotificationFollow, Message: "two"}
	require.NoError(t, repo.CreateNotification(a))
	require.NoError(t, repo.CreateNotification(b))

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.MarkAsRead(a.ID))

	count, err = repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByID(a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
}

func TestNotificationRepository_MarkAllAsRead_OnlyOwnRows(t *testing.T) {
	repo := NewPostgresNotificationRepository(setupNotificationDB(t))

	require.NoError(t, repo.CreateNotification(&models.Notification{RecipientID: 1, Kind: models.NotificationLike, Message: "a"}))
	require.NoError(t, repo.CreateNotification(&models.Notification{RecipientID: 1, Kind: models.NotificationComment, Message: "b"}))
	require.NoError(t, repo.CreateNotification(&models.Notification{RecipientID: 2, Kind: models.NotificationLike, Message: "c"}))

	require.NoError(t, repo.MarkAllAsRead(1))

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	otherCount, err := repo.GetUnreadCount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherCount)
}

func TestNotificationRepository_Delete(t *testing.T) {
	repo := NewPostgresNotificationRepository(setupNotificationDB(t))

	n := &models.Notification{RecipientID: 1, Kind: models.NotificationPostDelete, Message: "gone"}
	require.NoError(t, repo.CreateNotification(n))

	require.NoError(t, repo.DeleteNotification(n.ID))

	_, err := repo.GetByID(n.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

package models

import "time"

// Notification kinds. One durable record (and at most one live push) is
// produced per recipient per event.
const (
	NotificationComment         = "comment"          // someone commented on your post
	NotificationCommentActivity = "comment_activity" // new comment on a post you commented on
	NotificationLike            = "like"             // someone liked your post
	NotificationPostEdit        = "post_edit"        // a post you engaged with was edited
	NotificationPostDelete      = "post_delete"      // a post you engaged with was deleted
	NotificationNewPost         = "new_post"         // someone you follow posted
	NotificationFollow          = "follow"           // someone started following you
	NotificationMention         = "mention"          // someone mentioned you
)

// Notification is one recipient's durable copy of an event (PostgreSQL).
// SenderID is zero for system-generated events. PostID may dangle after the
// subject post is deleted; records are never cascade-deleted.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index:idx_recipient_read"`
	SenderID    uint      `json:"sender_id,omitempty" gorm:"index"`
	Kind        string    `json:"kind" gorm:"size:30;index"`
	PostID      string    `json:"post_id,omitempty"` // subject post (MongoDB ObjectID as string)
	Message     string    `json:"message"`
	IsRead      bool      `json:"read" gorm:"default:false;index:idx_recipient_read"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

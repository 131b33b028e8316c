package notifier

import (
	"fmt"
	"sync"
	"time"

	"github.com/ripplefeed/backend/internal/models"
	"github.com/ripplefeed/backend/internal/repositories"
	"github.com/ripplefeed/backend/internal/tags"
	"go.uber.org/zap"
)

// Dispatcher is the real-time delivery side. Implemented by
// realtime.Dispatcher; delivery is best-effort and never awaited.
type Dispatcher interface {
	SendToUser(userID uint, payload interface{}) bool
	SendToUsers(userIDs []uint, payload interface{}) int
	Broadcast(payload interface{})
}

// Payload is the live notification shape pushed over the wire. It mirrors
// the semantic content of the durable record.
type Payload struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	PostID    string    `json:"post_id,omitempty"`
	SenderID  uint      `json:"sender_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Service is the engagement event producer layer. Each method is called by a
// handler after the content mutation has committed, resolves the interested
// recipients, fires the real-time dispatch and persists one durable record
// per recipient. The two side effects are independent: neither failure rolls
// back the other or the content mutation. Methods are safe to invoke from a
// goroutine; they return once all persistence attempts have settled.
type Service struct {
	resolver   *Resolver
	dispatcher Dispatcher
	store      repositories.NotificationRepository
	users      repositories.UserRepository
	log        *zap.Logger
}

func NewService(
	resolver *Resolver,
	dispatcher Dispatcher,
	store repositories.NotificationRepository,
	users repositories.UserRepository,
	log *zap.Logger,
) *Service {
	return &Service{
		resolver:   resolver,
		dispatcher: dispatcher,
		store:      store,
		users:      users,
		log:        log,
	}
}

// CommentAdded notifies the post author, echoes to prior commenters, and
// resolves @mentions in the comment body. Self-comments produce no author
// notification.
func (s *Service) CommentAdded(post *models.Post, comment *models.Comment, actor *models.User) {
	postID := post.ID.Hex()

	if post.AuthorID != actor.ID {
		msg := fmt.Sprintf("%s commented on your post", actor.Username)
		s.emit(models.NotificationComment, msg, postID, actor.ID, []uint{post.AuthorID})
	}

	echo, err := s.resolver.CommentEcho(postID, actor.ID, post.AuthorID)
	if err != nil {
		s.log.Error("failed to resolve comment echo recipients", zap.String("post_id", postID), zap.Error(err))
	} else {
		msg := fmt.Sprintf("%s also commented on a post you commented on", actor.Username)
		s.emit(models.NotificationCommentActivity, msg, postID, actor.ID, echo)
	}

	s.emitMentions(comment.Content, postID, actor, "%s mentioned you in a comment")
}

// PostLiked notifies the post author of a new like. Unlikes never reach the
// producer, and liking your own post is suppressed here.
func (s *Service) PostLiked(post *models.Post, actor *models.User) {
	if post.AuthorID == actor.ID {
		return
	}
	msg := fmt.Sprintf("%s liked your post", actor.Username)
	s.emit(models.NotificationLike, msg, post.ID.Hex(), actor.ID, []uint{post.AuthorID})
}

// PostEdited notifies everyone who engaged with the post (distinct commenters
// and likers, deduplicated), excluding the editing author.
func (s *Service) PostEdited(post *models.Post, actor *models.User) {
	postID := post.ID.Hex()
	engaged, err := s.resolver.Engaged(postID, actor.ID)
	if err != nil {
		s.log.Error("failed to resolve edit recipients", zap.String("post_id", postID), zap.Error(err))
		return
	}
	msg := fmt.Sprintf("%s updated their post", actor.Username)
	s.emit(models.NotificationPostEdit, msg, postID, actor.ID, engaged)
}

// PostDeleted notifies everyone who engaged with the deleted post. The
// comment and like rows survive the post, so resolution still works after
// the delete commits; the records carry the now-dangling post id.
func (s *Service) PostDeleted(postID string, actor *models.User) {
	engaged, err := s.resolver.Engaged(postID, actor.ID)
	if err != nil {
		s.log.Error("failed to resolve delete recipients", zap.String("post_id", postID), zap.Error(err))
		return
	}
	msg := fmt.Sprintf("%s deleted a post you were following", actor.Username)
	s.emit(models.NotificationPostDelete, msg, postID, actor.ID, engaged)
}

// PostCreated notifies the author's followers and resolves @mentions in the
// post body.
func (s *Service) PostCreated(post *models.Post, actor *models.User) {
	postID := post.ID.Hex()
	followers, err := s.resolver.Followers(actor.ID)
	if err != nil {
		s.log.Error("failed to resolve followers", zap.Uint("author_id", actor.ID), zap.Error(err))
	} else {
		msg := fmt.Sprintf("%s shared a new post", actor.Username)
		s.emit(models.NotificationNewPost, msg, postID, actor.ID, followers)
	}

	s.emitMentions(post.Content, postID, actor, "%s mentioned you in a post")
}

// UserFollowed notifies the followed user.
func (s *Service) UserFollowed(targetID uint, actor *models.User) {
	msg := fmt.Sprintf("%s started following you", actor.Username)
	s.emit(models.NotificationFollow, msg, "", actor.ID, []uint{targetID})
}

// Broadcast pushes an administrative announcement to every connected client.
// No durable records are written; there is no computed recipient set.
func (s *Service) Broadcast(message string, sender uint) {
	s.dispatcher.Broadcast(Payload{
		Kind:      "announcement",
		Message:   message,
		SenderID:  sender,
		CreatedAt: time.Now(),
	})
}

// emitMentions resolves @username tokens to users and notifies each of them,
// excluding the actor and unknown names.
func (s *Service) emitMentions(content, postID string, actor *models.User, format string) {
	var recipients []uint
	for _, name := range tags.Mentions(content) {
		user, err := s.users.GetUserByUsername(name)
		if err != nil {
			continue
		}
		if user.ID == actor.ID {
			continue
		}
		recipients = append(recipients, user.ID)
	}
	if len(recipients) == 0 {
		return
	}
	msg := fmt.Sprintf(format, actor.Username)
	s.emit(models.NotificationMention, msg, postID, actor.ID, recipients)
}

// emit performs the two independent side effects for one event: a single
// best-effort real-time dispatch to the full recipient set, and one durable
// record per recipient written concurrently. A failed write for one
// recipient is logged and does not disturb the others.
func (s *Service) emit(kind, message, postID string, senderID uint, recipients []uint) {
	if len(recipients) == 0 {
		return
	}

	now := time.Now()
	s.dispatcher.SendToUsers(recipients, Payload{
		Kind:      kind,
		Message:   message,
		PostID:    postID,
		SenderID:  senderID,
		CreatedAt: now,
	})

	var wg sync.WaitGroup
	for _, recipientID := range recipients {
		wg.Add(1)
		go func(recipientID uint) {
			defer wg.Done()
			record := &models.Notification{
				RecipientID: recipientID,
				SenderID:    senderID,
				Kind:        kind,
				PostID:      postID,
				Message:     message,
				CreatedAt:   now,
			}
			if err := s.store.CreateNotification(record); err != nil {
				s.log.Error("failed to persist notification",
					zap.Uint("recipient_id", recipientID),
					zap.String("kind", kind),
					zap.Error(err),
				)
			}
		}(recipientID)
	}
	wg.Wait()
}

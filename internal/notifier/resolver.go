// Package notifier computes who is interested in a content event and fans
// the event out to a real-time dispatcher and a durable notification store.
package notifier

import (
	"github.com/ripplefeed/backend/internal/repositories"
)

// Resolver derives the deduplicated recipient set for each event kind from
// the engagement data, always excluding the acting user.
type Resolver struct {
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	follows  repositories.FollowRepository
}

func NewResolver(
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	follows repositories.FollowRepository,
) *Resolver {
	return &Resolver{comments: comments, likes: likes, follows: follows}
}

// CommentEcho returns the distinct prior commenters on a post, excluding the
// new commenter and the post author (the author is notified separately).
func (r *Resolver) CommentEcho(postID string, actorID, authorID uint) ([]uint, error) {
	commenters, err := r.comments.GetDistinctCommenterIDs(postID)
	if err != nil {
		return nil, err
	}
	return dedup(exclude(actorID, authorID), commenters), nil
}

// Engaged returns the union of distinct commenters and likers on a post,
// excluding the actor. A user who both commented and liked appears once.
func (r *Resolver) Engaged(postID string, actorID uint) ([]uint, error) {
	commenters, err := r.comments.GetDistinctCommenterIDs(postID)
	if err != nil {
		return nil, err
	}
	likers, err := r.likes.GetLikerIDs(postID)
	if err != nil {
		return nil, err
	}
	return dedup(exclude(actorID), commenters, likers), nil
}

// Followers returns the author's current followers, excluding the author.
func (r *Resolver) Followers(authorID uint) ([]uint, error) {
	followers, err := r.follows.GetFollowerIDs(authorID)
	if err != nil {
		return nil, err
	}
	return dedup(exclude(authorID), followers), nil
}

func exclude(ids ...uint) map[uint]struct{} {
	m := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// dedup merges the id lists into one set, dropping excluded ids. The result
// order is not significant.
func dedup(excluded map[uint]struct{}, lists ...[]uint) []uint {
	seen := make(map[uint]struct{})
	var out []uint
	for _, list := range lists {
		for _, id := range list {
			if _, skip := excluded[id]; skip {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

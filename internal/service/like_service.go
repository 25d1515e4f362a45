package service

import (
	"context"

	"socially/internal/cache"
	"socially/internal/models"
	"socially/internal/repository"
)

// LikeService carries out like queries and the toggle mutation.
type LikeService struct {
	likes repository.LikeRepository
	cache *cache.Cache
}

// NewLikeService creates a LikeService.
func NewLikeService(likes repository.LikeRepository, c *cache.Cache) *LikeService {
	return &LikeService{likes: likes, cache: c}
}

// State reports whether the user has liked the post. Callers must not
// invoke this without a resolved user.
func (s *LikeService) State(ctx context.Context, postID int, userID string) (bool, error) {
	return s.likes.State(ctx, postID, userID)
}

// Count returns the post's like count, independent of auth state.
func (s *LikeService) Count(ctx context.Context, postID int) (int, error) {
	return s.likes.Count(ctx, postID)
}

// Toggle flips the like for (post, user): removes the row when present,
// inserts one when absent. Both legs are idempotent at the store, so a
// double toggle cannot produce a duplicate row. Returns the new state.
func (s *LikeService) Toggle(ctx context.Context, postID int, actor models.Profile) (bool, error) {
	if actor.ID == "" {
		return false, models.NewUnauthorizedError("You must be logged in to like a post.")
	}

	liked, err := s.likes.State(ctx, postID, actor.ID)
	if err != nil {
		return false, models.NewInternalError(err)
	}

	if liked {
		err = s.likes.Remove(ctx, postID, actor.ID)
	} else {
		err = s.likes.Add(ctx, models.LikeInput{PostID: postID, UserID: actor.ID})
	}
	if err != nil {
		return liked, models.NewInternalError(err)
	}

	s.cache.Invalidate(ctx, cache.LikeStateKey(postID, actor.ID), cache.LikeCountKey(postID))
	return !liked, nil
}

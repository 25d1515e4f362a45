package repository

import (
	"context"
	"log/slog"

	"socially/internal/backend"
	"socially/internal/cache"
	"socially/internal/models"
	"socially/internal/observability"
)

// LikeRepository defines storage operations for likes.
type LikeRepository interface {
	// State reports whether a like row exists for (post, user).
	State(ctx context.Context, postID int, userID string) (bool, error)
	// Count returns the number of likes for the post.
	Count(ctx context.Context, postID int) (int, error)
	Add(ctx context.Context, in models.LikeInput) error
	Remove(ctx context.Context, postID int, userID string) error
}

type likeRepository struct {
	backend *backend.Client
	cache   *cache.Cache
	log     *observability.RepoLogger
}

// NewLikeRepository returns a repository over the backend's likes table.
func NewLikeRepository(b *backend.Client, c *cache.Cache, logger *slog.Logger) LikeRepository {
	return &likeRepository{
		backend: b,
		cache:   c,
		log:     observability.NewRepoLogger("likes", logger),
	}
}

func (r *likeRepository) State(ctx context.Context, postID int, userID string) (bool, error) {
	var liked bool
	key := cache.LikeStateKey(postID, userID)
	if r.cache.GetJSON(ctx, key, &liked) {
		return liked, nil
	}
	liked, err := r.backend.From("likes").
		Select("id").
		Eq("post_id", postID).
		Eq("user_id", userID).
		MaybeSingle(ctx, nil)
	if err != nil {
		r.log.LogError(ctx, err, "state")
		return false, err
	}
	r.cache.SetJSON(ctx, key, liked, cache.LikesTTL)
	return liked, nil
}

func (r *likeRepository) Count(ctx context.Context, postID int) (int, error) {
	var count int
	key := cache.LikeCountKey(postID)
	if r.cache.GetJSON(ctx, key, &count) {
		return count, nil
	}
	count, err := r.backend.From("likes").
		Eq("post_id", postID).
		Count(ctx)
	if err != nil {
		r.log.LogError(ctx, err, "count")
		return 0, err
	}
	r.cache.SetJSON(ctx, key, count, cache.LikesTTL)
	return count, nil
}

func (r *likeRepository) Add(ctx context.Context, in models.LikeInput) error {
	// Duplicate-ignoring upsert keyed on (post_id, user_id): a racing
	// double toggle cannot create a second row.
	err := r.backend.From("likes").UpsertIgnore(ctx, in, "post_id,user_id")
	if err != nil {
		r.log.LogError(ctx, err, "add")
		return err
	}
	r.log.LogWrite(ctx, "create", map[string]any{"post_id": in.PostID, "user_id": in.UserID})
	return nil
}

func (r *likeRepository) Remove(ctx context.Context, postID int, userID string) error {
	_, err := r.backend.From("likes").
		Eq("post_id", postID).
		Eq("user_id", userID).
		Delete(ctx)
	if err != nil {
		r.log.LogError(ctx, err, "remove")
		return err
	}
	r.log.LogWrite(ctx, "delete", map[string]any{"post_id": postID, "user_id": userID})
	return nil
}

// Package repository implements data access against the hosted row
// store, with read-through caching of query results.
package repository

import (
	"context"
	"log/slog"

	"socially/internal/backend"
	"socially/internal/cache"
	"socially/internal/models"
	"socially/internal/observability"
)

// PostRepository defines storage operations for posts.
type PostRepository interface {
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	Create(ctx context.Context, in models.PostInput) error
	// Delete removes the post filtered by both id and owner, returning
	// the number of rows removed. A non-owner's delete matches zero rows.
	Delete(ctx context.Context, postID int, userID string) (int, error)
}

type postRepository struct {
	backend *backend.Client
	cache   *cache.Cache
	log     *observability.RepoLogger
}

// NewPostRepository returns a repository over the backend's posts table.
func NewPostRepository(b *backend.Client, c *cache.Cache, logger *slog.Logger) PostRepository {
	return &postRepository{
		backend: b,
		cache:   c,
		log:     observability.NewRepoLogger("posts", logger),
	}
}

func (r *postRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if r.cache.GetJSON(ctx, cache.PostsKey, &posts) {
		return posts, nil
	}
	err := r.backend.From("posts").
		Select("*").
		Order("created_at", false).
		Get(ctx, &posts)
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, err
	}
	r.log.LogRead(ctx, map[string]any{"count": len(posts)})
	r.cache.SetJSON(ctx, cache.PostsKey, posts, cache.PostsTTL)
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	key := cache.UserPostsKey(userID)
	if r.cache.GetJSON(ctx, key, &posts) {
		return posts, nil
	}
	err := r.backend.From("posts").
		Select("*").
		Eq("user_id", userID).
		Order("created_at", false).
		Get(ctx, &posts)
	if err != nil {
		r.log.LogError(ctx, err, "list_by_user")
		return nil, err
	}
	r.log.LogRead(ctx, map[string]any{"user_id": userID, "count": len(posts)})
	r.cache.SetJSON(ctx, key, posts, cache.PostsTTL)
	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, in models.PostInput) error {
	if err := r.backend.From("posts").Insert(ctx, in); err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogWrite(ctx, "create", map[string]any{"user_id": in.UserID, "title": in.Title})
	return nil
}

func (r *postRepository) Delete(ctx context.Context, postID int, userID string) (int, error) {
	n, err := r.backend.From("posts").
		Eq("id", postID).
		Eq("user_id", userID).
		Delete(ctx)
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return 0, err
	}
	r.log.LogWrite(ctx, "delete", map[string]any{"post_id": postID, "user_id": userID, "affected": n})
	return n, nil
}

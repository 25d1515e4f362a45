package repository

import (
	"context"
	"log/slog"

	"socially/internal/backend"
	"socially/internal/cache"
	"socially/internal/models"
	"socially/internal/observability"
)

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID int) ([]models.Comment, error)
	Create(ctx context.Context, in models.CommentInput) error
	// Delete removes the comment filtered by post, owner and comment id,
	// returning the number of rows removed.
	Delete(ctx context.Context, postID int, userID string, commentID int) (int, error)
}

type commentRepository struct {
	backend *backend.Client
	cache   *cache.Cache
	log     *observability.RepoLogger
}

// NewCommentRepository returns a repository over the backend's comments table.
func NewCommentRepository(b *backend.Client, c *cache.Cache, logger *slog.Logger) CommentRepository {
	return &commentRepository{
		backend: b,
		cache:   c,
		log:     observability.NewRepoLogger("comments", logger),
	}
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	key := cache.CommentsKey(postID)
	if r.cache.GetJSON(ctx, key, &comments) {
		return comments, nil
	}
	err := r.backend.From("comments").
		Select("*").
		Eq("post_id", postID).
		Order("created_at", false).
		Get(ctx, &comments)
	if err != nil {
		r.log.LogError(ctx, err, "list_by_post")
		return nil, err
	}
	r.log.LogRead(ctx, map[string]any{"post_id": postID, "count": len(comments)})
	r.cache.SetJSON(ctx, key, comments, cache.CommentsTTL)
	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, in models.CommentInput) error {
	if err := r.backend.From("comments").Insert(ctx, in); err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogWrite(ctx, "create", map[string]any{"post_id": in.PostID, "user_id": in.UserID})
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, postID int, userID string, commentID int) (int, error) {
	n, err := r.backend.From("comments").
		Eq("post_id", postID).
		Eq("user_id", userID).
		Eq("id", commentID).
		Delete(ctx)
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return 0, err
	}
	r.log.LogWrite(ctx, "delete", map[string]any{"post_id": postID, "comment_id": commentID, "affected": n})
	return n, nil
}

// Package service implements the application's mutations: validation,
// multi-step orchestration against the backend, and invalidation of the
// cached queries each mutation makes stale.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"socially/internal/cache"
	"socially/internal/models"
	"socially/internal/repository"
)

// postImagesBucket is the single storage bucket for post images.
const postImagesBucket = "post-images"

// ObjectStore is the slice of the backend's storage interface the post
// flow needs: upload, public URL resolution, and compensating removal.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	PublicURL(bucket, key string) string
	Remove(ctx context.Context, bucket, key string) error
}

// PostService carries out post queries and mutations.
type PostService struct {
	posts   repository.PostRepository
	storage ObjectStore
	cache   *cache.Cache
	now     func() time.Time
}

// CreatePostInput is everything needed to create a post: the form
// fields, the image file, and a snapshot of the author's profile.
type CreatePostInput struct {
	Title       string
	Content     string
	FileName    string
	File        io.Reader
	ContentType string
	Author      models.Profile
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, storage ObjectStore, c *cache.Cache) *PostService {
	return &PostService{
		posts:   posts,
		storage: storage,
		cache:   c,
		now:     time.Now,
	}
}

// ListAll returns the full feed, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.posts.ListAll(ctx)
}

// ListByUser returns one user's posts, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

// Create uploads the image, resolves its public URL, and inserts the
// post row. An upload failure aborts the whole operation. If the row
// insert fails after the upload succeeded, the uploaded object is
// removed again so no orphan is left behind.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) error {
	if in.Author.ID == "" {
		return models.NewUnauthorizedError("You must be logged in to create a post.")
	}
	if in.Title == "" || in.Content == "" {
		return models.NewValidationError("Title and content are required")
	}
	if in.File == nil || in.FileName == "" {
		return models.NewValidationError("An image is required")
	}

	key := fmt.Sprintf("%s-%d", in.FileName, s.now().UnixMilli())
	if err := s.storage.Upload(ctx, postImagesBucket, key, in.File, in.ContentType); err != nil {
		return models.NewUploadError(err)
	}

	input := models.PostInput{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  s.storage.PublicURL(postImagesBucket, key),
		UserID:    in.Author.ID,
		UserName:  in.Author.Name,
		AvatarURL: in.Author.AvatarURL,
	}
	if err := s.posts.Create(ctx, input); err != nil {
		// Compensate: the row never landed, so take the object back out.
		_ = s.storage.Remove(ctx, postImagesBucket, key)
		return models.NewInternalError(err)
	}

	s.cache.Invalidate(ctx, cache.PostsKey, cache.UserPostsKey(in.Author.ID))
	return nil
}

// Delete removes the post if the actor owns it. A zero-row delete means
// the actor is not the owner (or the post is gone) and is reported as a
// distinct error rather than a silent success.
func (s *PostService) Delete(ctx context.Context, postID int, actor models.Profile) error {
	if actor.ID == "" {
		return models.NewUnauthorizedError("You must be logged in to delete a post.")
	}
	n, err := s.posts.Delete(ctx, postID, actor.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if n == 0 {
		return models.NewNotOwnerError("post")
	}
	s.cache.Invalidate(ctx, cache.PostsKey, cache.UserPostsKey(actor.ID))
	return nil
}

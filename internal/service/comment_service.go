package service

import (
	"context"
	"strings"

	"socially/internal/cache"
	"socially/internal/models"
	"socially/internal/repository"
)

// CommentService carries out comment queries and mutations.
type CommentService struct {
	comments repository.CommentRepository
	cache    *cache.Cache
}

// AddCommentInput is the payload for a new comment.
type AddCommentInput struct {
	PostID  int
	Content string
	Author  models.Profile
}

// NewCommentService creates a CommentService.
func NewCommentService(comments repository.CommentRepository, c *cache.Cache) *CommentService {
	return &CommentService{comments: comments, cache: c}
}

// ListByPost returns a post's comments, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// Add inserts a comment snapshotting the author's name and avatar.
// Whitespace-only content is rejected before any write happens.
func (s *CommentService) Add(ctx context.Context, in AddCommentInput) error {
	if in.Author.ID == "" {
		return models.NewUnauthorizedError("You must be logged in to comment.")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return models.NewValidationError("Comment cannot be empty")
	}

	input := models.CommentInput{
		PostID:    in.PostID,
		UserID:    in.Author.ID,
		Content:   content,
		UserName:  in.Author.Name,
		AvatarURL: in.Author.AvatarURL,
	}
	if err := s.comments.Create(ctx, input); err != nil {
		return models.NewInternalError(err)
	}

	s.cache.Invalidate(ctx, cache.CommentsKey(in.PostID))
	return nil
}

// Delete removes the comment if the actor owns it, with the same
// distinct zero-row reporting as post deletion.
func (s *CommentService) Delete(ctx context.Context, postID, commentID int, actor models.Profile) error {
	if actor.ID == "" {
		return models.NewUnauthorizedError("You must be logged in to delete a comment.")
	}
	n, err := s.comments.Delete(ctx, postID, actor.ID, commentID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if n == 0 {
		return models.NewNotOwnerError("comment")
	}
	s.cache.Invalidate(ctx, cache.CommentsKey(postID))
	return nil
}

package server

import (
	"net/url"
	"strconv"

	"socially/internal/models"
	"socially/internal/service"
	"socially/internal/session"

	"github.com/gofiber/fiber/v2"
)

// withCommentsOpen rewrites a return path so the comment list for postID
// is open when the page renders again. draft, when non-empty, carries
// the rejected input back into the form instead of clearing it.
func withCommentsOpen(returnPath string, postID int, draft string) string {
	u, err := url.Parse(returnPath)
	if err != nil {
		return "/"
	}
	q := u.Query()
	q.Set("comments", strconv.Itoa(postID))
	if draft != "" {
		q.Set("draft", draft)
	} else {
		q.Del("draft")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// AddComment inserts a comment and forces the list open on the way back.
// A rejected comment keeps its text in the form.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, ok := parsePostID(c)
	if !ok {
		return fiber.ErrNotFound
	}
	content := c.FormValue("content")

	in := service.AddCommentInput{
		PostID:  postID,
		Content: content,
		Author:  session.FromCtx(c).Profile(),
	}
	if err := s.comments.Add(s.requestCtx(c), in); err != nil {
		if models.IsCode(err, "UNAUTHORIZED") || models.IsCode(err, "VALIDATION_ERROR") {
			s.setFlash(c, flashError, models.UserMessage(err))
		} else {
			s.setFlash(c, flashError, "Failed to add comment")
		}
		return c.Redirect(withCommentsOpen(returnTo(c), postID, content))
	}

	s.setFlash(c, flashOK, "Comment added")
	return c.Redirect(withCommentsOpen(returnTo(c), postID, ""))
}

// DeleteComment removes a comment the current user owns.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, ok := parsePostID(c)
	if !ok {
		return fiber.ErrNotFound
	}
	commentID, err := c.ParamsInt("commentId")
	if err != nil || commentID <= 0 {
		return fiber.ErrNotFound
	}

	actor := session.FromCtx(c).Profile()
	if err := s.comments.Delete(s.requestCtx(c), postID, commentID, actor); err != nil {
		s.setFlash(c, flashError, models.UserMessage(err))
		return c.Redirect(withCommentsOpen(returnTo(c), postID, ""))
	}

	s.setFlash(c, flashOK, "Comment deleted successfully")
	return c.Redirect(withCommentsOpen(returnTo(c), postID, ""))
}

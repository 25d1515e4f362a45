package server

import (
	"socially/internal/models"
	"socially/internal/session"

	"github.com/gofiber/fiber/v2"
)

// LikePost toggles the current user's like for a post. Without a session
// no write happens; an error notice shows instead.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, ok := parsePostID(c)
	if !ok {
		return fiber.ErrNotFound
	}

	actor := session.FromCtx(c).Profile()
	liked, err := s.likes.Toggle(s.requestCtx(c), postID, actor)
	if err != nil {
		s.setFlash(c, flashError, models.UserMessage(err))
		return c.Redirect(returnTo(c))
	}

	if liked {
		s.setFlash(c, flashOK, "Post liked")
	} else {
		s.setFlash(c, flashOK, "Post unliked")
	}
	return c.Redirect(returnTo(c))
}

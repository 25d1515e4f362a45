package server

import (
	"github.com/gofiber/fiber/v2"
)

// SignIn starts the Google OAuth flow. The provider owns the redirect
// dance; no local state changes until the callback.
func (s *Server) SignIn(c *fiber.Ctx) error {
	return s.sessions.BeginOAuth(c)
}

// AuthCallback completes the OAuth flow and lands on the feed.
func (s *Server) AuthCallback(c *fiber.Ctx) error {
	if err := s.sessions.Callback(c); err != nil {
		s.log.Error("auth callback failed", "error", err)
		s.setFlash(c, flashError, "Sign-in failed")
		return c.Redirect("/")
	}
	return c.Redirect("/")
}

// SignOut invalidates the session and clears the local user.
func (s *Server) SignOut(c *fiber.Ctx) error {
	if err := s.sessions.SignOut(c); err != nil {
		s.log.Warn("sign-out failed", "error", err)
	}
	return c.Redirect("/")
}

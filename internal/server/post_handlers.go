package server

import (
	"socially/internal/models"
	"socially/internal/service"
	"socially/internal/session"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles the post creation form: image upload followed by
// the row insert. Success clears the form by redirecting back to it.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	title := c.FormValue("title")
	content := c.FormValue("content")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		s.setFlash(c, flashError, "An image is required")
		return c.Redirect("/create")
	}
	file, err := fileHeader.Open()
	if err != nil {
		s.setFlash(c, flashError, "Could not read the uploaded image")
		return c.Redirect("/create")
	}
	defer func() { _ = file.Close() }()

	in := service.CreatePostInput{
		Title:       title,
		Content:     content,
		FileName:    fileHeader.Filename,
		File:        file,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Author:      session.FromCtx(c).Profile(),
	}
	if err := s.posts.Create(s.requestCtx(c), in); err != nil {
		s.setFlash(c, flashError, models.UserMessage(err))
		return c.Redirect("/create")
	}

	s.setFlash(c, flashOK, "Post created successfully!")
	return c.Redirect("/create")
}

// DeletePost removes a post the current user owns.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, ok := parsePostID(c)
	if !ok {
		return fiber.ErrNotFound
	}

	actor := session.FromCtx(c).Profile()
	if err := s.posts.Delete(s.requestCtx(c), postID, actor); err != nil {
		s.setFlash(c, flashError, models.UserMessage(err))
		return c.Redirect(returnTo(c))
	}

	s.setFlash(c, flashOK, "Post deleted successfully")
	return c.Redirect(returnTo(c))
}

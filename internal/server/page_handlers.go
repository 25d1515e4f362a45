package server

import (
	"socially/internal/session"

	"github.com/gofiber/fiber/v2"
)

type feedData struct {
	layoutData
	Posts     []PostView
	LoadError string
	EmptyText string
}

// Home renders the public post feed, newest first. A fetch failure
// renders inline in place of the feed; an empty feed gets its own state.
func (s *Server) Home(c *fiber.Ctx) error {
	data := feedData{
		layoutData: s.layoutData(c, "Home"),
		EmptyText:  "No posts available",
	}

	posts, err := s.posts.ListAll(s.requestCtx(c))
	if err != nil {
		s.log.Error("feed fetch failed", "error", err)
		data.LoadError = "Could not load posts."
	} else {
		data.Posts = s.buildPostViews(c, posts)
	}
	return s.render(c, "home", data)
}

// YourPosts renders the current user's posts. Guarded; the user is
// always resolved here.
func (s *Server) YourPosts(c *fiber.Ctx) error {
	data := feedData{
		layoutData: s.layoutData(c, "Your Posts"),
		EmptyText:  "You have no posts yet.",
	}

	user := session.FromCtx(c).User
	posts, err := s.posts.ListByUser(s.requestCtx(c), user.ID)
	if err != nil {
		s.log.Error("user posts fetch failed", "user_id", user.ID, "error", err)
		data.LoadError = "Could not load your posts."
	} else {
		data.Posts = s.buildPostViews(c, posts)
	}
	return s.render(c, "your_posts", data)
}

// CreatePage renders the post creation form. Guarded.
func (s *Server) CreatePage(c *fiber.Ctx) error {
	return s.render(c, "create", s.layoutData(c, "Create Post"))
}

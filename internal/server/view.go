package server

import (
	"net/url"
	"strconv"

	"socially/internal/backend"
	"socially/internal/models"
	"socially/internal/session"

	"github.com/gofiber/fiber/v2"
)

// layoutData is shared by every page: the resolved user (or nil) and
// the pending flash notice.
type layoutData struct {
	Title string
	User  *backend.User
	Flash *Flash
}

func (s *Server) layoutData(c *fiber.Ctx, title string) layoutData {
	return layoutData{
		Title: title,
		User:  session.FromCtx(c).User,
		Flash: s.popFlash(c),
	}
}

// CommentView is a comment plus the viewer-dependent owner flag that
// decides whether the delete affordance renders. Display-only; the
// authoritative check is the owner filter on the delete itself.
type CommentView struct {
	models.Comment
	IsOwner bool
}

// PostView is a post decorated with everything its card renders: like
// state and count, comments, truncation, and the toggle URLs that carry
// the expand/show-comments state through query parameters.
type PostView struct {
	models.Post
	DisplayContent  string
	Truncated       bool
	Expanded        bool
	IsOwner         bool
	IsAuthed        bool
	Liked           bool
	LikeCount       int
	Comments        []CommentView
	CommentCount    int
	CommentsOpen    bool
	CommentsError   string
	Draft           string
	ReturnTo        string
	ExpandURL       string
	CollapseURL     string
	CommentsShowURL string
	CommentsHideURL string
}

// pageURL rebuilds the page path with the given expand/comments state.
func pageURL(path string, expand, comments int) string {
	v := url.Values{}
	if expand > 0 {
		v.Set("expand", strconv.Itoa(expand))
	}
	if comments > 0 {
		v.Set("comments", strconv.Itoa(comments))
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// buildPostViews assembles the per-post view state. Each card issues its
// own like and comment queries, mirroring how the feed is read; like and
// count failures are logged and render as zero values, while a comments
// failure renders inline in place of the list.
func (s *Server) buildPostViews(c *fiber.Ctx, posts []models.Post) []PostView {
	ctx := s.requestCtx(c)
	state := session.FromCtx(c)
	path := c.Path()
	expanded := c.QueryInt("expand", 0)
	openComments := c.QueryInt("comments", 0)
	draft := c.Query("draft")

	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		view := PostView{
			Post:            post,
			Expanded:        expanded == post.ID,
			IsAuthed:        state.User != nil,
			CommentsOpen:    openComments == post.ID,
			ReturnTo:        pageURL(path, expanded, openComments),
			ExpandURL:       pageURL(path, post.ID, openComments),
			CollapseURL:     pageURL(path, 0, openComments),
			CommentsShowURL: pageURL(path, expanded, post.ID),
			CommentsHideURL: pageURL(path, expanded, 0),
		}
		view.DisplayContent, view.Truncated = TruncateContent(post.Content)
		if view.CommentsOpen {
			view.Draft = draft
		}

		if state.User != nil {
			view.IsOwner = state.User.ID == post.UserID
			liked, err := s.likes.State(ctx, post.ID, state.User.ID)
			if err != nil {
				s.log.Warn("like state fetch failed", "post_id", post.ID, "error", err)
			}
			view.Liked = liked
		}

		count, err := s.likes.Count(ctx, post.ID)
		if err != nil {
			s.log.Warn("like count fetch failed", "post_id", post.ID, "error", err)
		}
		view.LikeCount = count

		// The comment list is always fetched so the count shows even
		// while the list is collapsed.
		comments, err := s.comments.ListByPost(ctx, post.ID)
		if err != nil {
			view.CommentsError = "Could not load comments."
		} else {
			view.CommentCount = len(comments)
			view.Comments = make([]CommentView, 0, len(comments))
			for _, comment := range comments {
				view.Comments = append(view.Comments, CommentView{
					Comment: comment,
					IsOwner: state.User != nil && state.User.ID == comment.UserID,
				})
			}
		}

		views = append(views, view)
	}
	return views
}

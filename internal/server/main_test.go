package server

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"socially/internal/backend"
	"socially/internal/cache"
	"socially/internal/config"
	"socially/internal/models"
	"socially/internal/service"
	"socially/internal/session"
)

// Repository stubs injected through the service constructors, in place
// of the backend-bound implementations.

type postRepoStub struct {
	listAllFn    func(context.Context) ([]models.Post, error)
	listByUserFn func(context.Context, string) ([]models.Post, error)
	createFn     func(context.Context, models.PostInput) error
	deleteFn     func(context.Context, int, string) (int, error)
}

func (s *postRepoStub) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.listAllFn(ctx)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *postRepoStub) Create(ctx context.Context, in models.PostInput) error {
	return s.createFn(ctx, in)
}
func (s *postRepoStub) Delete(ctx context.Context, postID int, userID string) (int, error) {
	return s.deleteFn(ctx, postID, userID)
}

type commentRepoStub struct {
	listByPostFn func(context.Context, int) ([]models.Comment, error)
	createFn     func(context.Context, models.CommentInput) error
	deleteFn     func(context.Context, int, string, int) (int, error)
}

func (s *commentRepoStub) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Create(ctx context.Context, in models.CommentInput) error {
	return s.createFn(ctx, in)
}
func (s *commentRepoStub) Delete(ctx context.Context, postID int, userID string, commentID int) (int, error) {
	return s.deleteFn(ctx, postID, userID, commentID)
}

type likeRepoStub struct {
	stateFn  func(context.Context, int, string) (bool, error)
	countFn  func(context.Context, int) (int, error)
	addFn    func(context.Context, models.LikeInput) error
	removeFn func(context.Context, int, string) error
}

func (s *likeRepoStub) State(ctx context.Context, postID int, userID string) (bool, error) {
	return s.stateFn(ctx, postID, userID)
}
func (s *likeRepoStub) Count(ctx context.Context, postID int) (int, error) {
	return s.countFn(ctx, postID)
}
func (s *likeRepoStub) Add(ctx context.Context, in models.LikeInput) error {
	return s.addFn(ctx, in)
}
func (s *likeRepoStub) Remove(ctx context.Context, postID int, userID string) error {
	return s.removeFn(ctx, postID, userID)
}

func noopRepos() (*postRepoStub, *commentRepoStub, *likeRepoStub) {
	posts := &postRepoStub{
		listAllFn:    func(context.Context) ([]models.Post, error) { return nil, nil },
		listByUserFn: func(context.Context, string) ([]models.Post, error) { return nil, nil },
		createFn:     func(context.Context, models.PostInput) error { return nil },
		deleteFn:     func(context.Context, int, string) (int, error) { return 1, nil },
	}
	comments := &commentRepoStub{
		listByPostFn: func(context.Context, int) ([]models.Comment, error) { return nil, nil },
		createFn:     func(context.Context, models.CommentInput) error { return nil },
		deleteFn:     func(context.Context, int, string, int) (int, error) { return 1, nil },
	}
	likes := &likeRepoStub{
		stateFn:  func(context.Context, int, string) (bool, error) { return false, nil },
		countFn:  func(context.Context, int) (int, error) { return 0, nil },
		addFn:    func(context.Context, models.LikeInput) error { return nil },
		removeFn: func(context.Context, int, string) error { return nil },
	}
	return posts, comments, likes
}

type storeStub struct{}

func (storeStub) Upload(context.Context, string, string, io.Reader, string) error { return nil }
func (storeStub) PublicURL(bucket, key string) string {
	return "https://example.test/" + bucket + "/" + key
}
func (storeStub) Remove(context.Context, string, string) error { return nil }

// newTestServer wires a Server around stub repositories and a fixed,
// pre-resolved session state.
func newTestServer(t *testing.T, state *session.State, posts *postRepoStub, comments *commentRepoStub, likes *likeRepoStub) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	qc := cache.New(nil, logger)

	s := &Server{
		config:    &config.Config{AllowedOrigins: "*"},
		log:       logger,
		sessionMW: session.Inject(state),
		posts:     service.NewPostService(posts, storeStub{}, qc),
		comments:  service.NewCommentService(comments, qc),
		likes:     service.NewLikeService(likes, qc),
	}
	s.app = s.buildApp()
	return s
}

func signedIn(id, name string) *session.State {
	return &session.State{
		User: &backend.User{
			ID: id,
			UserMetadata: backend.UserMetadata{
				FullName:  name,
				AvatarURL: "https://example.test/" + id + ".png",
			},
		},
		Token: "token-" + id,
	}
}

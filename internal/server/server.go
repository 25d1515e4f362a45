// Package server contains the Fiber application: routes, middleware,
// and the HTML handlers for the three pages and their mutations.
package server

import (
	"context"
	"log/slog"

	"socially/internal/backend"
	"socially/internal/cache"
	"socially/internal/config"
	"socially/internal/repository"
	"socially/internal/service"
	"socially/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config    *config.Config
	log       *slog.Logger
	app       *fiber.App
	redis     *redis.Client
	sessions  *session.Manager
	sessionMW fiber.Handler
	posts     *service.PostService
	comments  *service.CommentService
	likes     *service.LikeService
}

// NewServer creates a server instance with all dependencies wired: the
// backend client handle, the Redis query cache, repositories, services,
// and the session manager.
func NewServer(cfg *config.Config, log *slog.Logger) (*Server, error) {
	client := backend.New(cfg.BackendURL, cfg.BackendAnonKey)

	rdb := cache.InitRedis(cfg.RedisURL)
	queryCache := cache.New(rdb, log)

	postRepo := repository.NewPostRepository(client, queryCache, log)
	commentRepo := repository.NewCommentRepository(client, queryCache, log)
	likeRepo := repository.NewLikeRepository(client, queryCache, log)

	sessions := session.NewManager(client.Auth(), cfg.BaseURL, cfg.IsProduction(), log)

	s := &Server{
		config:   cfg,
		log:      log,
		redis:    rdb,
		sessions: sessions,
		posts:    service.NewPostService(postRepo, client.Storage(), queryCache),
		comments: service.NewCommentService(commentRepo, queryCache),
		likes:    service.NewLikeService(likeRepo, queryCache),
	}
	s.sessionMW = sessions.Middleware()
	s.app = s.buildApp()
	return s, nil
}

func (s *Server) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Socially",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
	}))
	app.Use(s.sessionMW)

	s.setupRoutes(app)
	return app
}

func (s *Server) setupRoutes(app *fiber.App) {
	app.Get("/", s.Home)
	app.Get("/create", s.requireUser, s.CreatePage)
	app.Get("/your-posts", s.requireUser, s.YourPosts)

	app.Post("/posts", s.requireUser, s.CreatePost)
	app.Post("/posts/:id/delete", s.DeletePost)
	app.Post("/posts/:id/like", s.LikePost)
	app.Post("/posts/:id/comments", s.AddComment)
	app.Post("/posts/:id/comments/:commentId/delete", s.DeleteComment)

	auth := app.Group("/auth")
	auth.Get("/login", s.SignIn)
	auth.Get("/callback", s.AuthCallback)
	auth.Post("/logout", s.SignOut)
}

// requireUser gates protected routes. The session middleware has already
// settled the state by the time this runs, so a nil user is definitive:
// redirect home with a notice and render nothing.
func (s *Server) requireUser(c *fiber.Ctx) error {
	if session.FromCtx(c).User == nil {
		s.setFlash(c, flashError, "You must be logged in to access this page.")
		return c.Redirect("/")
	}
	return c.Next()
}

// requestCtx returns the request context, carrying the user's access
// token when a session is present so backend calls act as the user.
func (s *Server) requestCtx(c *fiber.Ctx) context.Context {
	var ctx context.Context = c.Context()
	if state := session.FromCtx(c); state.Token != "" {
		ctx = backend.WithToken(ctx, state.Token)
	}
	return ctx
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server and closes Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.log.Warn("error closing Redis", "error", cerr)
		}
	}
	return err
}

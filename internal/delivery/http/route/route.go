package route

import (
	"github.com/danuandrian/commentarium/internal/delivery/http"
	"github.com/danuandrian/commentarium/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type RouteConfig struct {
	App               *fiber.App
	Log               *zap.Logger
	Config            *koanf.Koanf
	AuthMiddleware    *middleware.AuthMiddleware
	UserController    *http.UserController
	PostController    *http.PostController
	CommentController *http.CommentController
}

func (c *RouteConfig) SetupRoute() {
	api := c.App.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := api.Group("/auth", middleware.SetupAuthRateLimiter(c.Log))
	authGroup.Post("/register", c.UserController.Register)
	authGroup.Post("/login", c.UserController.Login)

	userGroup := api.Group("/users", c.AuthMiddleware.ProtectedRoute())
	userGroup.Get("/me", c.UserController.GetUserInfo)
	userGroup.Post("/logout", c.UserController.Logout)
	userGroup.Put("/avatar", c.UserController.UpdateAvatar)

	postGroup := api.Group("/post")
	postGroup.Get("/", c.PostController.GetPost)
	postGroup.Post("/demo", c.PostController.EnsureDemoPost)

	commentGroup := api.Group("/comments")
	// the literal upvote segment must register before the :postId routes
	commentGroup.Post("/upvote/:commentId", c.AuthMiddleware.ProtectedRoute(), c.CommentController.UpvoteComment)
	commentGroup.Get("/:postId", c.AuthMiddleware.OptionalRoute(), c.CommentController.GetComments)
	commentGroup.Post("/:postId", c.AuthMiddleware.ProtectedRoute(), c.CommentController.CreateComment)
	commentGroup.Put("/:commentId", c.AuthMiddleware.ProtectedRoute(), c.CommentController.UpdateComment)
	commentGroup.Delete("/:commentId", c.AuthMiddleware.ProtectedRoute(), c.CommentController.DeleteComment)

	// admin grant stays unmounted unless the operator configured a secret
	if c.Config.String("ADMIN_SECRET") != "" {
		adminGroup := api.Group("/admin")
		adminGroup.Post("/make-admin", c.UserController.MakeAdmin)
	}
}

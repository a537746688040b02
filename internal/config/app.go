package config

import (
	http "github.com/danuandrian/commentarium/internal/delivery/http"
	"github.com/danuandrian/commentarium/internal/delivery/http/middleware"
	"github.com/danuandrian/commentarium/internal/delivery/http/route"
	"github.com/danuandrian/commentarium/internal/repository"
	"github.com/danuandrian/commentarium/internal/usecase"
	"github.com/minio/minio-go/v7"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Router  *fiber.App
	DB      *pgxpool.Pool
	DBCache *redis.Client
	Log     *zap.Logger
	Config  *koanf.Koanf
	MinIO   *minio.Client
}

func Server(config *ServerConfig) *usecase.PostUsecase {
	userRepository := repository.NewUserRepository(config.Log, config.DB, config.DBCache, config.MinIO)
	userUsecase := usecase.NewUserUsecase(userRepository, config.Log, config.Config)
	userController := http.NewUserController(userUsecase, config.Log, config.Config)

	postRepository := repository.NewPostRepository(config.Log, config.DB)
	postUsecase := usecase.NewPostUsecase(postRepository, config.Log, config.Config)
	postController := http.NewPostController(postUsecase, config.Log, config.Config)

	commentRepository := repository.NewCommentRepository(config.Log, config.DB)
	commentUsecase := usecase.NewCommentUsecase(commentRepository, postRepository, config.Log, config.Config)
	commentController := http.NewCommentController(commentUsecase, config.Log, config.Config)

	authMiddleware := middleware.NewAuthMiddleware(config.Router, config.Log, config.Config, userUsecase)

	routeConfig := route.RouteConfig{
		App:               config.Router,
		Log:               config.Log,
		Config:            config.Config,
		AuthMiddleware:    authMiddleware,
		UserController:    userController,
		PostController:    postController,
		CommentController: commentController,
	}

	routeConfig.SetupRoute()

	return postUsecase
}

package http

import (
	"github.com/danuandrian/commentarium/internal/usecase"
	"github.com/danuandrian/commentarium/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type PostController struct {
	PostUsecase *usecase.PostUsecase
	Log         *zap.Logger
	Config      *koanf.Koanf
}

func NewPostController(postUsecase *usecase.PostUsecase, zap *zap.Logger, koanf *koanf.Koanf) *PostController {
	return &PostController{
		PostUsecase: postUsecase,
		Log:         zap,
		Config:      koanf,
	}
}

func (controller *PostController) GetPost(ctx *fiber.Ctx) error {
	response, err := controller.PostUsecase.GetPost(ctx.UserContext())
	if err != nil {
		return util.SendDomainError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

// EnsureDemoPost creates the seed post if none exists yet. Calling it again
// returns the existing post unchanged.
func (controller *PostController) EnsureDemoPost(ctx *fiber.Ctx) error {
	response, err := controller.PostUsecase.EnsureDemoPost(ctx.UserContext())
	if err != nil {
		return util.SendDomainError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

package middleware

import (
	"github.com/danuandrian/commentarium/internal/usecase"
	"github.com/danuandrian/commentarium/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	App         *fiber.App
	Log         *zap.Logger
	Config      *koanf.Koanf
	UserUsecase *usecase.UserUsecase
}

func NewAuthMiddleware(app *fiber.App, zap *zap.Logger, koanf *koanf.Koanf, userUsecase *usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		App:         app,
		Log:         zap,
		Config:      koanf,
		UserUsecase: userUsecase,
	}
}

// ProtectedRoute rejects the request unless a valid, still cached access
// token is presented. It leaves userId and isAdmin in the request locals.
func (middleware *AuthMiddleware) ProtectedRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		accessToken := ctx.Get("Authorization")
		tokenString, userId, err := util.ValidateAccessToken(accessToken, middleware.Config.String("JWT_SECRET_KEY"))
		if err != nil {
			return util.SendErrorResponseUnauthorized(ctx, err)
		}

		err = middleware.UserUsecase.GetAccessToken(ctx.UserContext(), userId, tokenString)
		if err != nil {
			return util.SendErrorResponseUnauthorized(ctx, err)
		}

		user, err := middleware.UserUsecase.GetUserById(ctx.UserContext(), userId)
		if err != nil {
			return util.SendErrorResponseInternalServer(ctx, middleware.Log, err)
		}

		ctx.Locals("userId", userId)
		ctx.Locals("isAdmin", user.IsAdmin)

		return ctx.Next()
	}
}

// OptionalRoute resolves the viewer when credentials are present but never
// blocks the request. Anonymous and badly authenticated callers both pass
// through with no locals set.
func (middleware *AuthMiddleware) OptionalRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		accessToken := ctx.Get("Authorization")
		if accessToken == "" {
			return ctx.Next()
		}

		tokenString, userId, err := util.ValidateAccessToken(accessToken, middleware.Config.String("JWT_SECRET_KEY"))
		if err != nil {
			return ctx.Next()
		}

		err = middleware.UserUsecase.GetAccessToken(ctx.UserContext(), userId, tokenString)
		if err != nil {
			return ctx.Next()
		}

		user, err := middleware.UserUsecase.GetUserById(ctx.UserContext(), userId)
		if err != nil {
			return ctx.Next()
		}

		ctx.Locals("userId", userId)
		ctx.Locals("isAdmin", user.IsAdmin)

		return ctx.Next()
	}
}

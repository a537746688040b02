package http

import (
	"github.com/danuandrian/commentarium/internal/commenttree"
	"github.com/danuandrian/commentarium/internal/constant"
	"github.com/danuandrian/commentarium/internal/model"
	"github.com/danuandrian/commentarium/internal/usecase"
	"github.com/danuandrian/commentarium/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type CommentController struct {
	CommentUsecase *usecase.CommentUsecase
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewCommentController(commentUsecase *usecase.CommentUsecase, zap *zap.Logger, koanf *koanf.Koanf) *CommentController {
	return &CommentController{
		CommentUsecase: commentUsecase,
		Log:            zap,
		Config:         koanf,
	}
}

// viewerFromLocals reads the identity the auth middleware left behind. On
// routes with optional auth the locals stay unset and the viewer is nil.
func viewerFromLocals(ctx *fiber.Ctx) *commenttree.Viewer {
	userId, ok := ctx.Locals("userId").(uuid.UUID)
	if !ok {
		return nil
	}

	isAdmin, _ := ctx.Locals("isAdmin").(bool)
	return &commenttree.Viewer{Id: userId, IsAdmin: isAdmin}
}

func parsePostId(ctx *fiber.Ctx) (uuid.UUID, error) {
	postId, err := uuid.Parse(ctx.Params("postId"))
	if err != nil {
		return uuid.Nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Invalid post id",
			Param:   "postId",
		}
	}
	return postId, nil
}

func parseCommentId(ctx *fiber.Ctx) (uuid.UUID, error) {
	commentId, err := uuid.Parse(ctx.Params("commentId"))
	if err != nil {
		return uuid.Nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Invalid comment id",
			Param:   "commentId",
		}
	}
	return commentId, nil
}

func (controller *CommentController) GetComments(ctx *fiber.Ctx) error {
	postId, err := parsePostId(ctx)
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	forest, err := controller.CommentUsecase.GetCommentForest(ctx.UserContext(), postId, viewerFromLocals(ctx), ctx.Query("sort"))
	if err != nil {
		return util.SendDomainError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, forest)
}

func (controller *CommentController) CreateComment(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(uuid.UUID)

	postId, err := parsePostId(ctx)
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var payload model.CommentCreateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.CommentUsecase.CreateComment(ctx.UserContext(), postId, userId, payload)
	if err != nil {
		return util.SendDomainError(ctx, controller.Log, err)
	}

	return util.SendCreatedResponseWithData(ctx, response)
}

func (controller *CommentController) UpdateComment(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(uuid.UUID)

	commentId, err := parseCommentId(ctx)
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var payload model.CommentUpdateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.CommentUsecase.UpdateComment(ctx.UserContext(), commentId, userId, payload)
	if err != nil {
		return util.SendDomainError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller *CommentController) DeleteComment(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(uuid.UUID)
	isAdmin, _ := ctx.Locals("isAdmin").(bool)

	commentId, err := parseCommentId(ctx)
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	err = controller.CommentUsecase.DeleteComment(ctx.UserContext(), commentId, userId, isAdmin)
	if err != nil {
		return util.SendDomainError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller *CommentController) UpvoteComment(ctx *fiber.Ctx) error {
	commentId, err := parseCommentId(ctx)
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	response, err := controller.CommentUsecase.UpvoteComment(ctx.UserContext(), commentId)
	if err != nil {
		return util.SendDomainError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

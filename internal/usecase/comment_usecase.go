package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/danuandrian/commentarium/internal/commenttree"
	"github.com/danuandrian/commentarium/internal/constant"
	"github.com/danuandrian/commentarium/internal/model"
	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// CommentStore is the flat record store the mutation coordinator works
// against. Mutations never touch the tree; every read rebuilds it from here.
type CommentStore interface {
	ListByPost(ctx context.Context, postId uuid.UUID) ([]model.CommentDetail, error)
	GetComment(ctx context.Context, commentId uuid.UUID) (model.Comment, error)
	GetCommentDetail(ctx context.Context, commentId uuid.UUID) (model.CommentDetail, error)
	CreateComment(ctx context.Context, comment model.Comment) error
	UpdateCommentText(ctx context.Context, commentId uuid.UUID, text string, updateDatetime time.Time) error
	DeleteComment(ctx context.Context, commentId uuid.UUID) error
	IncrementUpvote(ctx context.Context, commentId uuid.UUID) error
}

type PostChecker interface {
	CheckPostExists(ctx context.Context, postId uuid.UUID) (int, error)
}

type CommentUsecase struct {
	CommentStore CommentStore
	PostChecker  PostChecker
	Log          *zap.Logger
	Config       *koanf.Koanf
}

func NewCommentUsecase(commentStore CommentStore, postChecker PostChecker, zap *zap.Logger, koanf *koanf.Koanf) *CommentUsecase {
	return &CommentUsecase{
		CommentStore: commentStore,
		PostChecker:  postChecker,
		Log:          zap,
		Config:       koanf,
	}
}

// GetCommentForest is the read path: fetch the flat record set, assemble the
// forest, annotate reply counts, optionally sort, and stamp the viewer's
// allowed actions. Nothing is cached between requests.
func (usecase *CommentUsecase) GetCommentForest(ctx context.Context, postId uuid.UUID, viewer *commenttree.Viewer, sortParam string) ([]*commenttree.Node, error) {
	var strategy commenttree.Strategy
	sortRequested := false
	if sortParam != "" {
		parsed, ok := commenttree.ParseStrategy(sortParam)
		if !ok {
			return nil, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Sort must be one of: newest, oldest, popular, replies",
				Param:   "sort",
			}
		}
		strategy = parsed
		sortRequested = true
	}

	records, err := usecase.CommentStore.ListByPost(ctx, postId)
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Author.Avatar = usecase.avatarUrl(records[i].Author.Avatar)
	}

	forest := commenttree.Build(records)
	commenttree.Annotate(forest)
	if sortRequested {
		commenttree.Sort(forest, strategy)
	}
	commenttree.ApplyPermissions(forest, viewer)

	return forest, nil
}

func (usecase *CommentUsecase) CreateComment(ctx context.Context, postId uuid.UUID, authorId uuid.UUID, payload model.CommentCreateRequest) (model.CommentDetail, error) {
	detail := model.CommentDetail{}

	if payload.Text == "" {
		return detail, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Text is required to not be empty",
			Param:   "text",
		}
	} else if len(payload.Text) > constant.MAX_COMMENT_LENGTH {
		return detail, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Text must be at most %d characters", constant.MAX_COMMENT_LENGTH),
			Param:   "text",
		}
	}

	exists, err := usecase.PostChecker.CheckPostExists(ctx, postId)
	if err != nil {
		return detail, err
	}

	if exists != 1 {
		return detail, &model.NotFoundError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Post not found",
			Param:   "postId",
		}
	}

	// The parent is deliberately not checked against existing comments: a
	// dangling reference just makes the record an orphan the next render drops.
	var parentId *uuid.UUID
	if payload.ParentId != nil && *payload.ParentId != "" {
		parsed, err := uuid.Parse(*payload.ParentId)
		if err != nil {
			return detail, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Invalid parent comment id",
				Param:   "parent",
			}
		}
		parentId = &parsed
	}

	now := time.Now().UTC()
	comment := model.Comment{
		Id:             uuid.New(),
		PostId:         postId,
		AuthorId:       authorId,
		ParentId:       parentId,
		Text:           payload.Text,
		UpvoteCount:    0,
		Edited:         false,
		CreateDatetime: now,
		UpdateDatetime: now,
	}

	err = usecase.CommentStore.CreateComment(ctx, comment)
	if err != nil {
		return detail, err
	}

	detail, err = usecase.CommentStore.GetCommentDetail(ctx, comment.Id)
	if err != nil {
		return detail, err
	}

	detail.Author.Avatar = usecase.avatarUrl(detail.Author.Avatar)
	return detail, nil
}

func (usecase *CommentUsecase) UpdateComment(ctx context.Context, commentId uuid.UUID, actingUserId uuid.UUID, payload model.CommentUpdateRequest) (model.CommentDetail, error) {
	detail := model.CommentDetail{}

	if payload.Text == "" {
		return detail, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Text is required to not be empty",
			Param:   "text",
		}
	} else if len(payload.Text) > constant.MAX_COMMENT_LENGTH {
		return detail, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Text must be at most %d characters", constant.MAX_COMMENT_LENGTH),
			Param:   "text",
		}
	}

	comment, err := usecase.CommentStore.GetComment(ctx, commentId)
	if err != nil {
		return detail, err
	}

	// Editing is author-only; admins may delete but never rewrite others.
	if comment.AuthorId != actingUserId {
		return detail, &model.ForbiddenError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "Only the author can edit this comment",
			Param:   "commentId",
		}
	}

	err = usecase.CommentStore.UpdateCommentText(ctx, commentId, payload.Text, time.Now().UTC())
	if err != nil {
		return detail, err
	}

	detail, err = usecase.CommentStore.GetCommentDetail(ctx, commentId)
	if err != nil {
		return detail, err
	}

	detail.Author.Avatar = usecase.avatarUrl(detail.Author.Avatar)
	return detail, nil
}

// DeleteComment removes only the addressed record. Its replies stay in
// storage and silently drop out of the rendered forest as orphans.
func (usecase *CommentUsecase) DeleteComment(ctx context.Context, commentId uuid.UUID, actingUserId uuid.UUID, actingIsAdmin bool) error {
	comment, err := usecase.CommentStore.GetComment(ctx, commentId)
	if err != nil {
		return err
	}

	if comment.AuthorId != actingUserId && !actingIsAdmin {
		return &model.ForbiddenError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "Only the author or an admin can delete this comment",
			Param:   "commentId",
		}
	}

	return usecase.CommentStore.DeleteComment(ctx, commentId)
}

// UpvoteComment increments unconditionally: no dedup, no un-vote. The store's
// atomic increment is what keeps concurrent votes from losing updates.
func (usecase *CommentUsecase) UpvoteComment(ctx context.Context, commentId uuid.UUID) (model.CommentDetail, error) {
	detail := model.CommentDetail{}

	err := usecase.CommentStore.IncrementUpvote(ctx, commentId)
	if err != nil {
		return detail, err
	}

	detail, err = usecase.CommentStore.GetCommentDetail(ctx, commentId)
	if err != nil {
		return detail, err
	}

	detail.Author.Avatar = usecase.avatarUrl(detail.Author.Avatar)
	return detail, nil
}

func (usecase *CommentUsecase) avatarUrl(objectKey *string) *string {
	if objectKey == nil {
		return nil
	}

	url := fmt.Sprintf("%s%s/%s/%s",
		usecase.Config.String("MINIO_HTTP"),
		usecase.Config.String("MINIO_URL"),
		usecase.Config.String("MINIO_BUCKET_NAME"),
		*objectKey,
	)
	return &url
}

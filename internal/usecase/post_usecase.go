package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/danuandrian/commentarium/internal/model"
	"github.com/danuandrian/commentarium/internal/repository"
	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type PostUsecase struct {
	PostRepository *repository.PostRepository
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewPostUsecase(postRepository *repository.PostRepository, zap *zap.Logger, koanf *koanf.Koanf) *PostUsecase {
	return &PostUsecase{
		PostRepository: postRepository,
		Log:            zap,
		Config:         koanf,
	}
}

func (usecase *PostUsecase) GetPost(ctx context.Context) (model.Post, error) {
	return usecase.PostRepository.GetFirstPost(ctx)
}

// EnsureDemoPost creates the demo article when none exists yet and returns
// it. Safe to call on every startup.
func (usecase *PostUsecase) EnsureDemoPost(ctx context.Context) (model.Post, error) {
	post, err := usecase.PostRepository.GetFirstPost(ctx)
	if err == nil {
		return post, nil
	}

	var notFoundErr *model.NotFoundError
	if !errors.As(err, &notFoundErr) {
		return post, err
	}

	post = model.Post{
		Id:             uuid.New(),
		Title:          "Welcome to the Nested Commenting Platform!",
		Content:        "This is a demo post. Add comments below to start a discussion.",
		Image:          nil,
		CreateDatetime: time.Now().UTC(),
	}

	err = usecase.PostRepository.CreatePost(ctx, post)
	if err != nil {
		return post, err
	}

	usecase.Log.Info("demo post created", zap.String("postId", post.Id.String()))
	return post, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/danuandrian/commentarium/internal/constant"
	"github.com/danuandrian/commentarium/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewPostRepository(zap *zap.Logger, db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		Log: zap,
		DB:  db,
	}
}

// GetFirstPost returns the oldest post. The platform serves a single demo
// article, so "the" post is just whichever exists first.
func (repository *PostRepository) GetFirstPost(ctx context.Context) (model.Post, error) {
	query := `
		SELECT id, title, content, image, create_datetime
		FROM posts
		ORDER BY create_datetime ASC
		LIMIT 1
	`

	var post model.Post
	err := repository.DB.QueryRow(ctx, query).Scan(
		&post.Id, &post.Title, &post.Content, &post.Image, &post.CreateDatetime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post, &model.NotFoundError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Post not found",
				Param:   "postId",
			}
		}

		return post, classifyStoreError(err)
	}

	return post, nil
}

func (repository *PostRepository) CheckPostExists(ctx context.Context, postId uuid.UUID) (int, error) {
	query := "SELECT 1 FROM posts WHERE id = $1"

	var exists int
	err := repository.DB.QueryRow(ctx, query, postId).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, classifyStoreError(err)
	}

	return exists, nil
}

func (repository *PostRepository) CreatePost(ctx context.Context, post model.Post) error {
	query := "INSERT INTO posts (id, title, content, image, create_datetime) VALUES ($1, $2, $3, $4, $5)"

	_, err := repository.DB.Exec(ctx, query, post.Id, post.Title, post.Content, post.Image, post.CreateDatetime)
	if err != nil {
		return classifyStoreError(err)
	}

	return nil
}

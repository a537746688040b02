package repository

import (
	"context"
	"errors"
	"time"

	"github.com/danuandrian/commentarium/internal/constant"
	"github.com/danuandrian/commentarium/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CommentRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewCommentRepository(zap *zap.Logger, db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		Log: zap,
		DB:  db,
	}
}

// classifyStoreError turns connection-class failures into UpstreamError so the
// delivery layer can answer 503 instead of pretending the record is missing.
func classifyStoreError(err error) error {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return &model.UpstreamError{
			Code:    constant.ERR_UPSTREAM_UNAVAILABLE_CODE,
			Message: constant.ERR_UPSTREAM_UNAVAILABLE_MESSAGE,
		}
	}

	return err
}

func commentNotFound() *model.NotFoundError {
	return &model.NotFoundError{
		Code:    constant.ERR_NOT_FOUND_ERROR,
		Message: "Comment not found",
		Param:   "commentId",
	}
}

// ListByPost fetches every comment of one post joined with its author, in
// creation order. The tree builder does not depend on this order, but it is
// what establishes the natural sibling order of the rendered forest.
func (repository *CommentRepository) ListByPost(ctx context.Context, postId uuid.UUID) ([]model.CommentDetail, error) {
	query := `
		SELECT c.id, c.post_id, c.parent_id, c.text, c.upvote_count, c.edited, c.create_datetime,
		       u.id, u.name, u.avatar_image, u.is_admin
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.create_datetime ASC, c.id ASC
	`

	rows, err := repository.DB.Query(ctx, query, postId)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	defer rows.Close()

	comments := []model.CommentDetail{}
	for rows.Next() {
		var comment model.CommentDetail
		err := rows.Scan(
			&comment.Id, &comment.PostId, &comment.ParentId, &comment.Text,
			&comment.UpvoteCount, &comment.Edited, &comment.CreateDatetime,
			&comment.Author.Id, &comment.Author.Name, &comment.Author.Avatar, &comment.Author.IsAdmin,
		)
		if err != nil {
			return nil, err
		}

		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (repository *CommentRepository) GetComment(ctx context.Context, commentId uuid.UUID) (model.Comment, error) {
	query := `
		SELECT id, post_id, author_id, parent_id, text, upvote_count, edited, create_datetime, update_datetime
		FROM comments
		WHERE id = $1
	`

	var comment model.Comment
	err := repository.DB.QueryRow(ctx, query, commentId).Scan(
		&comment.Id, &comment.PostId, &comment.AuthorId, &comment.ParentId,
		&comment.Text, &comment.UpvoteCount, &comment.Edited,
		&comment.CreateDatetime, &comment.UpdateDatetime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return comment, commentNotFound()
		}

		return comment, classifyStoreError(err)
	}

	return comment, nil
}

// GetCommentDetail returns one flat comment joined with its author, the shape
// mutation endpoints respond with.
func (repository *CommentRepository) GetCommentDetail(ctx context.Context, commentId uuid.UUID) (model.CommentDetail, error) {
	query := `
		SELECT c.id, c.post_id, c.parent_id, c.text, c.upvote_count, c.edited, c.create_datetime,
		       u.id, u.name, u.avatar_image, u.is_admin
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`

	var comment model.CommentDetail
	err := repository.DB.QueryRow(ctx, query, commentId).Scan(
		&comment.Id, &comment.PostId, &comment.ParentId, &comment.Text,
		&comment.UpvoteCount, &comment.Edited, &comment.CreateDatetime,
		&comment.Author.Id, &comment.Author.Name, &comment.Author.Avatar, &comment.Author.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return comment, commentNotFound()
		}

		return comment, classifyStoreError(err)
	}

	return comment, nil
}

func (repository *CommentRepository) CreateComment(ctx context.Context, comment model.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, parent_id, text, upvote_count, edited, create_datetime, update_datetime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := repository.DB.Exec(ctx, query,
		comment.Id, comment.PostId, comment.AuthorId, comment.ParentId,
		comment.Text, comment.UpvoteCount, comment.Edited,
		comment.CreateDatetime, comment.UpdateDatetime,
	)
	if err != nil {
		return classifyStoreError(err)
	}

	return nil
}

func (repository *CommentRepository) UpdateCommentText(ctx context.Context, commentId uuid.UUID, text string, updateDatetime time.Time) error {
	query := "UPDATE comments SET text = $2, edited = TRUE, update_datetime = $3 WHERE id = $1"

	tag, err := repository.DB.Exec(ctx, query, commentId, text, updateDatetime)
	if err != nil {
		return classifyStoreError(err)
	}

	if tag.RowsAffected() == 0 {
		return commentNotFound()
	}

	return nil
}

// DeleteComment removes only the addressed row. Replies keep their parent_id
// and simply become unreachable in the rendered forest.
func (repository *CommentRepository) DeleteComment(ctx context.Context, commentId uuid.UUID) error {
	query := "DELETE FROM comments WHERE id = $1"

	tag, err := repository.DB.Exec(ctx, query, commentId)
	if err != nil {
		return classifyStoreError(err)
	}

	if tag.RowsAffected() == 0 {
		return commentNotFound()
	}

	return nil
}

// IncrementUpvote relies on a single-statement increment so concurrent votes
// never lose updates.
func (repository *CommentRepository) IncrementUpvote(ctx context.Context, commentId uuid.UUID) error {
	query := "UPDATE comments SET upvote_count = upvote_count + 1, update_datetime = $2 WHERE id = $1"

	tag, err := repository.DB.Exec(ctx, query, commentId, time.Now().UTC())
	if err != nil {
		return classifyStoreError(err)
	}

	if tag.RowsAffected() == 0 {
		return commentNotFound()
	}

	return nil
}

package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danuandrian/commentarium/internal/constant"
	"github.com/danuandrian/commentarium/internal/model"
	"github.com/danuandrian/commentarium/internal/util"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type UserRepository struct {
	Log      *zap.Logger
	DB       *pgxpool.Pool
	DBCache  *redis.Client
	DBObject *minio.Client
}

func NewUserRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client, minio *minio.Client) *UserRepository {
	return &UserRepository{
		Log:      zap,
		DB:       db,
		DBCache:  dbCache,
		DBObject: minio,
	}
}

func (repository *UserRepository) Register(ctx context.Context, user model.User) error {
	query := `
		INSERT INTO users (id, name, email, password, avatar_image, is_admin, create_datetime, update_datetime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := repository.DB.Exec(ctx, query,
		user.Id, user.Name, user.Email, user.Password, user.AvatarImage,
		user.IsAdmin, user.CreateDatetime, user.UpdateDatetime,
	)
	if err != nil {
		return classifyStoreError(err)
	}

	return nil
}

func (repository *UserRepository) CheckEmailUnique(ctx context.Context, email string) (int, error) {
	query := "SELECT 1 FROM users WHERE email = $1"

	var exists int
	err := repository.DB.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, classifyStoreError(err)
	}

	return exists, nil
}

func (repository *UserRepository) GetUserAuth(ctx context.Context, email string) (uuid.UUID, string, error) {
	query := "SELECT id, password FROM users WHERE email = $1"

	var userId uuid.UUID
	var password string
	err := repository.DB.QueryRow(ctx, query, email).Scan(&userId, &password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userId, password, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Email or password is incorrect",
				Param:   "email",
			}
		}

		return userId, password, classifyStoreError(err)
	}

	return userId, password, nil
}

func (repository *UserRepository) GetUserById(ctx context.Context, userId uuid.UUID) (model.User, error) {
	query := `
		SELECT id, name, email, password, avatar_image, is_admin, create_datetime, update_datetime
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := repository.DB.QueryRow(ctx, query, userId).Scan(
		&user.Id, &user.Name, &user.Email, &user.Password, &user.AvatarImage,
		&user.IsAdmin, &user.CreateDatetime, &user.UpdateDatetime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, &model.NotFoundError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "User not found",
				Param:   "userId",
			}
		}

		return user, classifyStoreError(err)
	}

	return user, nil
}

func (repository *UserRepository) GrantAdminByEmail(ctx context.Context, email string, updateDatetime time.Time) (model.User, error) {
	query := `
		UPDATE users SET is_admin = TRUE, update_datetime = $2
		WHERE email = $1
		RETURNING id, name, email, password, avatar_image, is_admin, create_datetime, update_datetime
	`

	var user model.User
	err := repository.DB.QueryRow(ctx, query, email, updateDatetime).Scan(
		&user.Id, &user.Name, &user.Email, &user.Password, &user.AvatarImage,
		&user.IsAdmin, &user.CreateDatetime, &user.UpdateDatetime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, &model.NotFoundError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "User not found",
				Param:   "email",
			}
		}

		return user, classifyStoreError(err)
	}

	return user, nil
}

func (repository *UserRepository) SetAuthTokenInCache(ctx context.Context, accessToken string, refreshToken string, userId uuid.UUID) error {
	accessTokenKey := fmt.Sprintf("auth:accessToken:%s", userId)
	refreshTokenKey := fmt.Sprintf("auth:refreshToken:%s", userId)

	// only hashes go into redis
	err := repository.DBCache.Set(ctx, accessTokenKey, util.HashToken(accessToken), util.AccessTokenDuration).Err()
	if err != nil {
		return err
	}

	return repository.DBCache.Set(ctx, refreshTokenKey, util.HashToken(refreshToken), util.RefreshTokenDuration).Err()
}

func (repository *UserRepository) GetAccessTokenInCache(ctx context.Context, userId uuid.UUID) (string, error) {
	accessTokenKey := fmt.Sprintf("auth:accessToken:%s", userId)

	hashedToken, err := repository.DBCache.Get(ctx, accessTokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return hashedToken, &model.ValidationError{
			Code:    constant.ERR_UNATHORIZED_ERROR,
			Message: "Authorization token not found or expired",
			Param:   "accessToken",
		}
	} else if err != nil {
		return hashedToken, err
	}

	return hashedToken, nil
}

func (repository *UserRepository) RemoveAuthToken(ctx context.Context, userId uuid.UUID) error {
	accessTokenKey := fmt.Sprintf("auth:accessToken:%s", userId)
	refreshTokenKey := fmt.Sprintf("auth:refreshToken:%s", userId)

	err := repository.DBCache.Del(ctx, accessTokenKey).Err()
	if err != nil {
		return err
	}

	return repository.DBCache.Del(ctx, refreshTokenKey).Err()
}

func (repository *UserRepository) UploadUserAvatar(ctx context.Context, bucketName string, objectKey string, imageFile *bytes.Reader, imageSize int64) error {
	_, err := repository.DBObject.PutObject(ctx, bucketName, objectKey, imageFile, imageSize,
		minio.PutObjectOptions{
			ContentType:  "image/webp",
			CacheControl: "public, max-age=31536000, immutable",
		})
	return err
}

func (repository *UserRepository) DeleteUserAvatar(ctx context.Context, bucketName string, objectKey string) error {
	return repository.DBObject.RemoveObject(ctx, bucketName, objectKey, minio.RemoveObjectOptions{})
}

func (repository *UserRepository) UpdateAvatarImage(ctx context.Context, userId uuid.UUID, objectKey *string, updateDatetime time.Time) error {
	query := "UPDATE users SET avatar_image = $2, update_datetime = $3 WHERE id = $1"

	_, err := repository.DB.Exec(ctx, query, userId, objectKey, updateDatetime)
	if err != nil {
		return classifyStoreError(err)
	}

	return nil
}

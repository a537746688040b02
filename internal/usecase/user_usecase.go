package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime/multipart"
	"strings"
	"time"

	"github.com/danuandrian/commentarium/internal/constant"
	"github.com/danuandrian/commentarium/internal/model"
	"github.com/danuandrian/commentarium/internal/repository"
	"github.com/danuandrian/commentarium/internal/util"
	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserUsecase struct {
	UserRepository *repository.UserRepository
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewUserUsecase(userRepository *repository.UserRepository, zap *zap.Logger, koanf *koanf.Koanf) *UserUsecase {
	return &UserUsecase{
		UserRepository: userRepository,
		Log:            zap,
		Config:         koanf,
	}
}

func (usecase *UserUsecase) Register(ctx context.Context, payload model.UserRegisterRequest) (model.TokenResponse, error) {
	token := model.TokenResponse{}

	if payload.Name == "" {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Name is required to not be empty",
			Param:   "name",
		}
	} else if len(payload.Name) > constant.MAX_NAME_LENGTH {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Name must be at most %d characters", constant.MAX_NAME_LENGTH),
			Param:   "name",
		}
	}

	if payload.Email == "" {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is required to not be empty",
			Param:   "email",
		}
	} else if !strings.Contains(payload.Email, "@") || len(payload.Email) > constant.MAX_EMAIL_LENGTH {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is not valid",
			Param:   "email",
		}
	}

	if payload.Password == "" {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is required to not be empty",
			Param:   "password",
		}
	} else if len(payload.Password) < 5 {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password must be at least 5 characters",
			Param:   "password",
		}
	} else if len(payload.Password) > 20 {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password must be at most 20 characters",
			Param:   "password",
		}
	}

	payload.Email = strings.ToLower(payload.Email)

	exists, err := usecase.UserRepository.CheckEmailUnique(ctx, payload.Email)
	if err != nil {
		return token, err
	}

	if exists == 1 {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is already exists",
			Param:   "email",
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return token, err
	}

	now := time.Now().UTC()
	user := model.User{
		Id:             uuid.New(),
		Name:           payload.Name,
		Email:          payload.Email,
		Password:       string(hashedPassword),
		IsAdmin:        false,
		CreateDatetime: now,
		UpdateDatetime: now,
	}

	err = usecase.UserRepository.Register(ctx, user)
	if err != nil {
		return token, err
	}

	token, err = util.GenerateTokenPair(user.Id, usecase.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return token, err
	}

	err = usecase.UserRepository.SetAuthTokenInCache(ctx, token.AccessToken, token.RefreshToken, user.Id)
	if err != nil {
		return token, err
	}

	// welcome email is best effort, signup never fails on it
	usecase.sendWelcomeEmail(user)

	return token, nil
}

func (usecase *UserUsecase) sendWelcomeEmail(user model.User) {
	smtpHost := usecase.Config.String("SMTP_HOST")
	if smtpHost == "" {
		return
	}

	tmpl, err := template.ParseFS(util.TemplateFS, "template/welcome.html")
	if err != nil {
		usecase.Log.Warn("failed to parse welcome email template", zap.Error(err))
		return
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, struct{ Name string }{Name: user.Name})
	if err != nil {
		usecase.Log.Warn("failed to render welcome email", zap.Error(err))
		return
	}

	err = util.SendEmail(
		smtpHost,
		usecase.Config.Int("SMTP_PORT"),
		usecase.Config.String("SENDER_NAME"),
		usecase.Config.String("SENDER_EMAIL"),
		usecase.Config.String("SENDER_PASSWORD"),
		user.Email,
		"Welcome to Commentarium",
		body.String(),
	)
	if err != nil {
		usecase.Log.Warn("failed to send welcome email", zap.String("email", user.Email), zap.Error(err))
	}
}

func (usecase *UserUsecase) Login(ctx context.Context, payload model.UserLoginRequest) (model.TokenResponse, error) {
	token := model.TokenResponse{}

	if payload.Email == "" {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is required to not be empty",
			Param:   "email",
		}
	}

	if payload.Password == "" {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is required to not be empty",
			Param:   "password",
		}
	}

	payload.Email = strings.ToLower(payload.Email)

	userId, password, err := usecase.UserRepository.GetUserAuth(ctx, payload.Email)
	if err != nil {
		return token, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(password), []byte(payload.Password))
	if err != nil {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email or password is incorrect",
			Param:   "password",
		}
	}

	token, err = util.GenerateTokenPair(userId, usecase.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return token, err
	}

	err = usecase.UserRepository.SetAuthTokenInCache(ctx, token.AccessToken, token.RefreshToken, userId)
	if err != nil {
		return token, err
	}

	return token, nil
}

func (usecase *UserUsecase) GetUserInfo(ctx context.Context, userId uuid.UUID) (model.UserResponse, error) {
	user, err := usecase.UserRepository.GetUserById(ctx, userId)
	if err != nil {
		return model.UserResponse{}, err
	}

	return usecase.toUserResponse(user), nil
}

func (usecase *UserUsecase) GetUserById(ctx context.Context, userId uuid.UUID) (model.User, error) {
	return usecase.UserRepository.GetUserById(ctx, userId)
}

// GetAccessToken checks the presented token against the hashed copy in the
// cache; a logout or expiry invalidates the token even if its JWT is valid.
func (usecase *UserUsecase) GetAccessToken(ctx context.Context, userId uuid.UUID, accessToken string) error {
	hashedTokenFromCache, err := usecase.UserRepository.GetAccessTokenInCache(ctx, userId)
	if err != nil {
		return err
	}

	if util.HashToken(accessToken) != hashedTokenFromCache {
		return &model.ValidationError{
			Code:    constant.ERR_UNATHORIZED_ERROR,
			Message: "Authorization token is expired",
			Param:   "accessToken",
		}
	}

	return nil
}

func (usecase *UserUsecase) Logout(ctx context.Context, userId uuid.UUID) error {
	return usecase.UserRepository.RemoveAuthToken(ctx, userId)
}

func (usecase *UserUsecase) UpdateAvatar(ctx context.Context, userId uuid.UUID, fileHeader *multipart.FileHeader) error {
	imageFile, imageSize, err := util.ValidateImage(fileHeader, "avatar")
	if err != nil {
		return err
	}

	user, err := usecase.UserRepository.GetUserById(ctx, userId)
	if err != nil {
		return err
	}

	bucketName := usecase.Config.String("MINIO_BUCKET_NAME")
	objectKey := fmt.Sprintf("user/avatar/%s.webp", uuid.New())

	err = usecase.UserRepository.UploadUserAvatar(ctx, bucketName, objectKey, imageFile, imageSize)
	if err != nil {
		return err
	}

	err = usecase.UserRepository.UpdateAvatarImage(ctx, userId, &objectKey, time.Now().UTC())
	if err != nil {
		return err
	}

	if user.AvatarImage != nil {
		err = usecase.UserRepository.DeleteUserAvatar(ctx, bucketName, *user.AvatarImage)
		if err != nil {
			usecase.Log.Warn("failed to delete previous avatar object", zap.Error(err))
		}
	}

	return nil
}

// MakeAdmin promotes a user by email. The endpoint only works when the server
// is started with ADMIN_SECRET configured; otherwise it is disabled.
func (usecase *UserUsecase) MakeAdmin(ctx context.Context, payload model.MakeAdminRequest) (model.UserResponse, error) {
	response := model.UserResponse{}

	adminSecret := usecase.Config.String("ADMIN_SECRET")
	if adminSecret == "" {
		return response, &model.ForbiddenError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "Admin endpoint disabled. Set ADMIN_SECRET to enable",
			Param:   "secret",
		}
	}

	if payload.Secret == "" || payload.Secret != adminSecret {
		return response, &model.ForbiddenError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "Invalid secret",
			Param:   "secret",
		}
	}

	user, err := usecase.UserRepository.GrantAdminByEmail(ctx, strings.ToLower(payload.Email), time.Now().UTC())
	if err != nil {
		return response, err
	}

	return usecase.toUserResponse(user), nil
}

func (usecase *UserUsecase) toUserResponse(user model.User) model.UserResponse {
	response := model.UserResponse{
		Id:             user.Id,
		Name:           user.Name,
		Email:          user.Email,
		IsAdmin:        user.IsAdmin,
		CreateDatetime: user.CreateDatetime,
	}

	if user.AvatarImage != nil {
		url := fmt.Sprintf("%s%s/%s/%s",
			usecase.Config.String("MINIO_HTTP"),
			usecase.Config.String("MINIO_URL"),
			usecase.Config.String("MINIO_BUCKET_NAME"),
			*user.AvatarImage,
		)
		response.Avatar = &url
	}

	return response
}

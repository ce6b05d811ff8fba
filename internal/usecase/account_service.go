package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/streamhub/account-server/internal/domain"
	"github.com/streamhub/account-server/internal/observability"
)

type AccountResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	AvatarURL     string `json:"avatar_url"`
	CoverImageURL string `json:"cover_image_url"`
}

type UploadedImage struct {
	ContentType string
	FileName    string
	Size        int64
	Body        io.Reader
}

type AccountService struct {
	Users       domain.UserRepository
	HashHandler domain.HashRepository
	Storage     domain.FileStorage
	Logger      domain.LoggingRepository
}

func NewAccountService(
	users domain.UserRepository,
	hashHandler domain.HashRepository,
	storage domain.FileStorage,
	logger domain.LoggingRepository,
) *AccountService {
	return &AccountService{
		Users:       users,
		HashHandler: hashHandler,
		Storage:     storage,
		Logger:      logger,
	}
}

func accountResponse(u *domain.User) *AccountResponse {
	return &AccountResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
	}
}

func (s *AccountService) Register(ctx context.Context, req domain.RegisteredUser) (*AccountResponse, error) {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "register", "http.request.id", reqID, "event.category", []string{"iam"})
	log.Info("user registration started", "event.type", []string{"start"})

	existing, err := s.Users.GetUserByUsernameOrEmail(ctx, req.Username, req.Email)
	if existing != nil && err == nil {
		log.Warn(
			"user already exists",
			"event.action", "check_existing_user",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"})
		return nil, domain.ErrUserExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		log.Error(
			"failed to check existing user",
			"event.action", "check_existing_user",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	hashedPassword, err := s.HashHandler.Hash(req.Password)
	if err != nil {
		log.Error(
			"failed to hash user password",
			"event.action", "hash_password",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	user, err := s.Users.CreateUser(ctx, &domain.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: hashedPassword,
	})
	if err != nil {
		log.Error(
			"failed to save user",
			"event.action", "create_user",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	log.Info(
		"user successfully registered",
		"user.id", user.ID,
		"event.type", []string{"end", "creation"},
		"event.outcome", "success")

	return accountResponse(user), nil
}

func (s *AccountService) GetCurrentUser(ctx context.Context, userID string) (*AccountResponse, error) {
	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return accountResponse(user), nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID string, req domain.ChangePassword) error {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "change-password", "http.request.id", reqID, "user.id", userID, "event.category", []string{"iam"})
	log.Info("password change started", "event.type", []string{"start"})

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	err = s.HashHandler.VerifyHash([]byte(user.Password), req.OldPassword)
	if err != nil {
		log.Warn(
			"old password verification failed",
			"event.action", "verify_old_password",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"})
		return domain.ErrInvalidCredentials
	}

	hashedPassword, err := s.HashHandler.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	err = s.Users.UpdatePassword(ctx, userID, hashedPassword)
	if err != nil {
		log.Error(
			"failed to update password",
			"event.action", "update_password",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return err
	}

	log.Info(
		"password changed successfully",
		"event.type", []string{"end"},
		"event.outcome", "success")
	return nil
}

func (s *AccountService) UpdateAccountDetails(ctx context.Context, userID string, req domain.UpdateAccount) (*AccountResponse, error) {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "update-account", "http.request.id", reqID, "user.id", userID, "event.category", []string{"iam"})

	user, err := s.Users.UpdateAccountDetails(ctx, userID, req.FullName, req.Email)
	if err != nil {
		log.Error(
			"failed to update account details",
			"event.action", "update_account_details",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	log.Info(
		"account details updated",
		"event.type", []string{"end"},
		"event.outcome", "success")
	return accountResponse(user), nil
}

func (s *AccountService) UpdateAvatar(ctx context.Context, userID string, img UploadedImage) (*AccountResponse, error) {
	return s.updateImage(ctx, userID, img, "avatars",
		func(u *domain.User) string { return u.AvatarKey },
		s.Users.UpdateAvatar)
}

func (s *AccountService) UpdateCoverImage(ctx context.Context, userID string, img UploadedImage) (*AccountResponse, error) {
	return s.updateImage(ctx, userID, img, "covers",
		func(u *domain.User) string { return u.CoverImageKey },
		s.Users.UpdateCoverImage)
}

func (s *AccountService) updateImage(
	ctx context.Context,
	userID string,
	img UploadedImage,
	prefix string,
	oldKey func(*domain.User) string,
	update func(ctx context.Context, id, url, key string) error,
) (*AccountResponse, error) {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "update-image", "http.request.id", reqID, "user.id", userID, "event.category", []string{"iam"})
	log.Info("image upload started", "event.type", []string{"start"}, "file.size", img.Size)

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s%s", prefix, userID, uuid.New().String(), path.Ext(img.FileName))
	url, err := s.Storage.Upload(ctx, key, img.ContentType, img.Body, img.Size)
	if err != nil {
		log.Error(
			"failed to upload image",
			"event.action", "upload_image",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	err = update(ctx, userID, url, key)
	if err != nil {
		log.Error(
			"failed to persist image url",
			"event.action", "persist_image_url",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	// best effort: the new image is already live
	if old := oldKey(user); old != "" {
		if err := s.Storage.Delete(ctx, old); err != nil {
			log.Warn(
				"failed to delete previous image",
				"event.action", "delete_previous_image",
				"object.key", old,
				"error.message", err.Error())
		}
	}

	log.Info(
		"image updated",
		"event.type", []string{"end"},
		"event.outcome", "success")
	return s.GetCurrentUser(ctx, userID)
}

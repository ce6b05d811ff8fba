package usecase

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/streamhub/account-server/internal/domain"
	"github.com/streamhub/account-server/internal/observability"
)

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
}

// AuthService owns the access/refresh token lifecycle: issuing a pair at
// login, rotating it at refresh, and invalidating it at logout. The persisted
// refresh token on the user row is the single source of truth; at most one
// refresh token is valid per user at any time.
type AuthService struct {
	Users           domain.UserRepository
	HashHandler     domain.HashRepository
	JwtTokenHandler domain.JwtTokenRepository
	Logger          domain.LoggingRepository
}

func NewAuthService(
	users domain.UserRepository,
	hashHandler domain.HashRepository,
	jwttoken domain.JwtTokenRepository,
	logger domain.LoggingRepository,
) *AuthService {
	return &AuthService{
		Users:           users,
		HashHandler:     hashHandler,
		JwtTokenHandler: jwttoken,
		Logger:          logger,
	}
}

func (s *AuthService) Login(ctx context.Context, req domain.LoginUser) (*AuthResponse, error) {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "login", "http.request.id", reqID, "event.category", []string{"authentication"})
	log.Info("user authentication started", "event.type", []string{"start"})

	user, err := s.Users.GetUserByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Warn(
				"login attempt for unknown user",
				"event.action", "get_user_by_username_or_email",
				"event.outcome", "failed",
				"event.type", []string{"error", "end"})
			return nil, domain.ErrInvalidCredentials
		}
		log.Error(
			"failed to find user",
			"event.action", "get_user_by_username_or_email",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	err = s.HashHandler.VerifyHash([]byte(user.Password), req.Password)
	if err != nil {
		log.Warn(
			"failed to verify user password",
			"user.id", user.ID,
			"event.action", "verify_user_password",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"})
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user.ID, log)
	if err != nil {
		return nil, err
	}

	log.Info(
		"user successfully logged in",
		"user.id", user.ID,
		"event.type", []string{"end", "allowed"},
		"event.outcome", "success")

	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       user.ID,
		Username:     user.Username,
	}, nil
}

// Refresh validates the presented refresh token against the persisted value
// and rotates it. A token that was already rotated away, or cleared by
// logout, fails with ErrTokenRevoked even while its signature and expiry are
// still technically valid.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*AuthResponse, error) {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "jwt-refresh", "http.request.id", reqID, "event.category", []string{"authentication"})
	log.Info("refreshing jwt token started", "event.type", []string{"start"})

	identity, err := s.JwtTokenHandler.VerifyRefreshToken(presented)
	if err != nil {
		log.Warn(
			"failed to verify jwt refresh token",
			"event.action", "verify_refresh_token",
			"event.outcome", "failed",
			"event.type", []string{"error", "denied"},
			"error.message", err.Error())
		return nil, err
	}

	user, err := s.Users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		log.Warn(
			"failed to find user by id",
			"event.action", "get_user_by_id",
			"user.id", identity.UserID,
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	if user.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(presented)) != 1 {
		log.Warn(
			"presented refresh token does not match persisted value",
			"event.action", "compare_refresh_token",
			"user.id", user.ID,
			"event.outcome", "failed",
			"event.type", []string{"error", "denied"})
		return nil, domain.ErrTokenRevoked
	}

	pair, err := s.JwtTokenHandler.CreateTokenPair(user.ID)
	if err != nil {
		log.Error(
			"failed to create access and refresh token",
			"event.action", "create_jwt_token",
			"user.id", user.ID,
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	err = s.Users.RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenRevoked) {
			log.Warn(
				"lost refresh rotation race",
				"event.action", "rotate_refresh_token",
				"user.id", user.ID,
				"event.outcome", "failed",
				"event.type", []string{"error", "denied"})
			return nil, err
		}
		log.Error(
			"failed to persist rotated refresh token",
			"event.action", "rotate_refresh_token",
			"user.id", user.ID,
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "failed to persist refresh token", err)
	}

	log.Info(
		"refresh token rotated successfully",
		"user.id", user.ID,
		"event.type", []string{"end", "creation"},
		"event.outcome", "success")

	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       user.ID,
		Username:     user.Username,
	}, nil
}

// Logout clears the persisted refresh token unconditionally. Any refresh
// token issued before this point is permanently unusable until the next login.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "logout", "http.request.id", reqID, "user.id", userID, "event.category", []string{"authentication"})
	log.Info("user logout started", "event.type", []string{"start"})

	err := s.Users.SetRefreshToken(ctx, userID, nil)
	if err != nil {
		log.Error(
			"failed to clear refresh token",
			"event.action", "clear_refresh_token",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return err
	}

	log.Info(
		"user logged out",
		"event.type", []string{"end"},
		"event.outcome", "success")
	return nil
}

// issueTokenPair mints a fresh pair and persists the refresh half before
// anything is returned to the caller. A failed store write surfaces as an
// infrastructure error and no tokens leave this function.
func (s *AuthService) issueTokenPair(ctx context.Context, userID string, log domain.LoggingRepository) (*domain.TokenPair, error) {
	pair, err := s.JwtTokenHandler.CreateTokenPair(userID)
	if err != nil {
		log.Error(
			"failed to create access and refresh token",
			"user.id", userID,
			"event.action", "create_jwt_token",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, err
	}

	err = s.Users.SetRefreshToken(ctx, userID, &pair.RefreshToken)
	if err != nil {
		log.Error(
			"failed to save refresh token",
			"user.id", userID,
			"event.action", "save_refresh_token",
			"event.outcome", "failed",
			"event.type", []string{"error", "end"},
			"error.message", err.Error())
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "failed to persist refresh token", err)
	}

	return pair, nil
}

package domain

import (
	"context"
	"time"
)

type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	Password      string
	AvatarURL     string
	AvatarKey     string
	CoverImageURL string
	CoverImageKey string
	RefreshToken  *string
	CreatedAt     time.Time
}

type RegisteredUser struct {
	Username string
	Email    string
	FullName string
	Password string
}

type LoginUser struct {
	Username string
	Email    string
	Password string
}

type UpdateAccount struct {
	FullName string
	Email    string
}

type ChangePassword struct {
	OldPassword string
	NewPassword string
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	UpdateAvatar(ctx context.Context, id, url, key string) error
	UpdateCoverImage(ctx context.Context, id, url, key string) error

	// SetRefreshToken overwrites the persisted refresh token. A nil token
	// clears it (logout).
	SetRefreshToken(ctx context.Context, id string, token *string) error

	// RotateRefreshToken replaces the persisted refresh token only if the
	// stored value still equals old. It returns ErrTokenRevoked when the
	// stored value changed in between, so two concurrent refreshes cannot
	// both rotate the same token.
	RotateRefreshToken(ctx context.Context, id, old, new string) error
}

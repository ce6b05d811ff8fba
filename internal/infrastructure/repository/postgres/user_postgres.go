package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/streamhub/account-server/internal/domain"
)

type UserRepo struct {
	Db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db}
}

const userColumns = `id, username, email, full_name, password_hash,
	coalesce(avatar_url, ''), coalesce(avatar_key, ''),
	coalesce(cover_image_url, ''), coalesce(cover_image_key, ''),
	refresh_token, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Password,
		&user.AvatarURL, &user.AvatarKey, &user.CoverImageURL, &user.CoverImageKey,
		&user.RefreshToken, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	return &user, nil
}

func (u *UserRepo) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `insert into users (id, username, email, full_name, password_hash)
		values ($1, $2, $3, $4, $5)
		returning ` + userColumns
	row := u.Db.QueryRow(ctx, query, user.ID, user.Username, user.Email, user.FullName, user.Password)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return created, nil
}

func (u *UserRepo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `select ` + userColumns + ` from users where id = $1`
	return scanUser(u.Db.QueryRow(ctx, query, id))
}

func (u *UserRepo) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	query := `select ` + userColumns + ` from users where username = $1 or email = $2`
	return scanUser(u.Db.QueryRow(ctx, query, username, email))
}

func (u *UserRepo) UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*domain.User, error) {
	query := `update users set full_name = $2, email = $3, updated_at = now()
		where id = $1
		returning ` + userColumns
	return scanUser(u.Db.QueryRow(ctx, query, id, fullName, email))
}

func (u *UserRepo) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	query := `update users set password_hash = $2, updated_at = now() where id = $1`
	return u.execExpectingUser(ctx, query, id, hashedPassword)
}

func (u *UserRepo) UpdateAvatar(ctx context.Context, id, url, key string) error {
	query := `update users set avatar_url = $2, avatar_key = $3, updated_at = now() where id = $1`
	return u.execExpectingUser(ctx, query, id, url, key)
}

func (u *UserRepo) UpdateCoverImage(ctx context.Context, id, url, key string) error {
	query := `update users set cover_image_url = $2, cover_image_key = $3, updated_at = now() where id = $1`
	return u.execExpectingUser(ctx, query, id, url, key)
}

func (u *UserRepo) SetRefreshToken(ctx context.Context, id string, token *string) error {
	query := `update users set refresh_token = $2, updated_at = now() where id = $1`
	return u.execExpectingUser(ctx, query, id, token)
}

// RotateRefreshToken is the compare-and-swap rotation point: the update only
// lands when the stored token still equals old. Zero affected rows means a
// concurrent refresh or a logout won the race.
func (u *UserRepo) RotateRefreshToken(ctx context.Context, id, old, new string) error {
	query := `update users set refresh_token = $3, updated_at = now()
		where id = $1 and refresh_token = $2`
	tag, err := u.Db.Exec(ctx, query, id, old, new)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenRevoked
	}
	return nil
}

func (u *UserRepo) execExpectingUser(ctx context.Context, query string, args ...any) error {
	tag, err := u.Db.Exec(ctx, query, args...)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

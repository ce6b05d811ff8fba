package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/streamhub/account-server/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})         {}
func (nopLogger) Warn(msg string, args ...interface{})         {}
func (nopLogger) Error(msg string, args ...interface{})        {}
func (n nopLogger) With(args ...interface{}) domain.LoggingRepository { return n }

// fakeUserRepo keeps users in a map, guarded the same way the real pool
// serializes row updates.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	failSetRefresh bool
	rotateErr      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	stored := *u
	stored.ID = uuid.New().String()
	f.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if fullName != "" {
		u.FullName = fullName
	}
	if email != "" {
		u.Email = email
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Password = hashedPassword
	return nil
}

func (f *fakeUserRepo) UpdateAvatar(ctx context.Context, id, url, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.AvatarURL, u.AvatarKey = url, key
	return nil
}

func (f *fakeUserRepo) UpdateCoverImage(ctx context.Context, id, url, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CoverImageURL, u.CoverImageKey = url, key
	return nil
}

func (f *fakeUserRepo) SetRefreshToken(ctx context.Context, id string, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSetRefresh {
		return fmt.Errorf("connection reset by peer")
	}
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if token == nil {
		u.RefreshToken = nil
		return nil
	}
	copied := *token
	u.RefreshToken = &copied
	return nil
}

func (f *fakeUserRepo) RotateRefreshToken(ctx context.Context, id, old, new string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rotateErr != nil {
		return f.rotateErr
	}
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.RefreshToken == nil || *u.RefreshToken != old {
		return domain.ErrTokenRevoked
	}
	copied := new
	u.RefreshToken = &copied
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]string)}
}

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

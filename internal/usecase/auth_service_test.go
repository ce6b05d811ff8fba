package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/streamhub/account-server/internal/domain"
	"github.com/streamhub/account-server/internal/infrastructure/security"
	"github.com/streamhub/account-server/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestJwtAuth() security.JwtAuth {
	return security.JwtAuth{
		AccessSecret:  []byte("access-secret-for-tests-0123456789ab"),
		RefreshSecret: []byte("refresh-secret-for-tests-0123456789a"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "streamhub-test",
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string) *domain.User {
	t.Helper()
	hasher := security.Hasher{Cost: bcrypt.MinCost}
	hashed, err := hasher.Hash(password)
	require.NoError(t, err)

	user, err := repo.CreateUser(context.Background(), &domain.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test User",
		Password: hashed,
	})
	require.NoError(t, err)
	return user
}

func newAuthService(repo *fakeUserRepo) *usecase.AuthService {
	return usecase.NewAuthService(repo, security.Hasher{Cost: bcrypt.MinCost}, newTestJwtAuth(), nopLogger{})
}

func TestLoginIssuesPairAndPersistsRefreshToken(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	user := seedUser(t, repo, "alice", "Sup3rSecret!")
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), domain.LoginUser{Username: "alice", Password: "Sup3rSecret!"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "alice", resp.Username)

	// the persisted value must be exactly what the client received
	stored, err := repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, resp.RefreshToken, *stored.RefreshToken)

	identity, err := newTestJwtAuth().VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "Sup3rSecret!")
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), domain.LoginUser{Username: "alice", Password: "wrong-password"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownUserHidesExistence(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())

	resp, err := svc.Login(context.Background(), domain.LoginUser{Username: "nobody", Password: "whatever"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginStoreWriteFailureReturnsNoTokens(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	user := seedUser(t, repo, "alice", "Sup3rSecret!")
	repo.failSetRefresh = true
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), domain.LoginUser{Username: "alice", Password: "Sup3rSecret!"})
	assert.Nil(t, resp)
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeInternal, de.Code)

	// nothing may be persisted either
	repo.failSetRefresh = false
	stored, err := repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "Sup3rSecret!")
	svc := newAuthService(repo)

	first, err := svc.Login(context.Background(), domain.LoginUser{Username: "alice", Password: "Sup3rSecret!"})
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the rotated-away token is revoked even though its signature and
	// expiry are still valid
	resp, err := svc.Refresh(context.Background(), first.RefreshToken)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	// the current token keeps working
	third, err := svc.Refresh(context.Background(), second.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, third.AccessToken)
}

func TestRefreshAfterLogout(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "Sup3rSecret!")
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), domain.LoginUser{Username: "alice", Password: "Sup3rSecret!"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.UserID))

	stored, err := repo.GetUserByID(context.Background(), login.UserID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestRefreshTamperedToken(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "Sup3rSecret!")
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), domain.LoginUser{Username: "alice", Password: "Sup3rSecret!"})
	require.NoError(t, err)

	tampered := []byte(login.RefreshToken)
	tampered[len(tampered)-1] ^= 0x01

	resp, err := svc.Refresh(context.Background(), string(tampered))
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefreshForDeletedUser(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	user := seedUser(t, repo, "alice", "Sup3rSecret!")
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), domain.LoginUser{Username: "alice", Password: "Sup3rSecret!"})
	require.NoError(t, err)

	repo.mu.Lock()
	delete(repo.users, user.ID)
	repo.mu.Unlock()

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRefreshLostRotationRace(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "Sup3rSecret!")
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), domain.LoginUser{Username: "alice", Password: "Sup3rSecret!"})
	require.NoError(t, err)

	// a concurrent refresh rotated the row between the read and the
	// conditional update
	repo.rotateErr = domain.ErrTokenRevoked

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

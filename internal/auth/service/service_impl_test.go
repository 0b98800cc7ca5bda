package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/folio/internal/auth/domain"
	"github.com/smallbiznis/folio/internal/auth/repository"
	"github.com/smallbiznis/folio/internal/clock"
	"github.com/smallbiznis/folio/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	repo, sessionRepo := repository.New(db)

	svc := NewService(Params{
		Config:      config.Config{SessionTTLHours: 72},
		Log:         zaptest.NewLogger(t),
		GenID:       node,
		Clock:       fake,
		Repo:        repo,
		SessionRepo: sessionRepo,
	})
	return svc, fake
}

func createUser(t *testing.T, svc domain.Service, email string, roles ...string) *domain.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    email,
		Password: "correct-horse",
		Roles:    roles,
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "not-an-email", Password: "correct-horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "a@example.com",
		Password: "correct-horse",
		Roles:    []string{"superuser"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestCreateUserDefaultsAndDuplicates(t *testing.T) {
	svc, _ := newTestService(t)

	user := createUser(t, svc, "Jamie <Jamie@Example.com>")
	assert.Equal(t, "jamie@example.com", user.Email)
	assert.Equal(t, "jamie", user.DisplayName)
	assert.Equal(t, []string{domain.RoleStaff}, []string(user.Roles))
	require.NotNil(t, user.PasswordHash)
	assert.NotContains(t, *user.PasswordHash, "correct-horse")

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "jamie@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user := createUser(t, svc, "jamie@example.com", domain.RoleManager)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "jamie@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.RawToken)

	session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "jamie@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "bogus-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	createUser(t, svc, "jamie@example.com")
	result, err := svc.Login(ctx, domain.LoginRequest{Email: "jamie@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	createUser(t, svc, "jamie@example.com")
	result, err := svc.Login(ctx, domain.LoginRequest{Email: "jamie@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	fake.Advance(73 * time.Hour)

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

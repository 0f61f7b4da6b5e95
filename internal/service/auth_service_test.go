package service_test

import (
	"context"
	"testing"
	"time"

	"go-inventory-history/internal/config"
	"go-inventory-history/internal/model"
	"go-inventory-history/internal/repository"
	"go-inventory-history/internal/service"
	"go-inventory-history/internal/testdb"
	"go-inventory-history/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminConfig = config.AdminConfig{Username: "admin", Password: "admin123", Email: "admin@example.com", Name: "Administrator"}

func newAuth(t *testing.T) (service.AuthService, repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepo(testdb.New(t))
	return service.NewAuthService(users, jwt.NewManager("test-secret", time.Hour)), users
}

func TestEnsureAdmin_IsIdempotent(t *testing.T) {
	auth, users := newAuth(t)
	ctx := context.Background()

	created, err := auth.EnsureAdmin(ctx, adminConfig)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = auth.EnsureAdmin(ctx, adminConfig)
	require.NoError(t, err)
	assert.False(t, created)

	u, err := users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "admin123", u.Password)
	require.NotNil(t, u.Email)
	assert.Equal(t, "admin@example.com", *u.Email)

	created, err = auth.EnsureAdmin(ctx, config.AdminConfig{})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLogin_SessionIsUsable(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	_, err := auth.EnsureAdmin(ctx, adminConfig)
	require.NoError(t, err)

	res, err := auth.Login(ctx, &service.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin", res.User.Username)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	user, err := auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
}

func TestLogin_Rejections(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	_, err := auth.EnsureAdmin(ctx, adminConfig)
	require.NoError(t, err)

	_, err = auth.Login(ctx, &service.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &service.LoginRequest{Username: "ghost", Password: "admin123"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	var verr *service.ValidationError
	_, err = auth.Login(ctx, &service.LoginRequest{Username: "admin"})
	assert.ErrorAs(t, err, &verr)

	res, err := auth.Login(ctx, &service.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	require.NoError(t, auth.SetActive(ctx, "admin", false))
	_, err = auth.Login(ctx, &service.LoginRequest{Username: "admin", Password: "admin123"})
	assert.ErrorIs(t, err, service.ErrUserInactive)
	_, err = auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, service.ErrUserInactive, "existing sessions end with the account")
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	foreign, err := jwt.NewManager("other-secret", time.Hour).GenerateToken(uuid.New(), "admin", model.RoleAdmin)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, foreign)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	orphan, err := jwt.NewManager("test-secret", time.Hour).GenerateToken(uuid.New(), "nobody", model.RoleUser)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestResetPassword(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	_, err := auth.EnsureAdmin(ctx, adminConfig)
	require.NoError(t, err)

	var verr *service.ValidationError
	assert.ErrorAs(t, auth.ResetPassword(ctx, "admin", "abc"), &verr)
	assert.ErrorIs(t, auth.ResetPassword(ctx, "ghost", "long-enough"), service.ErrUserNotFound)

	require.NoError(t, auth.ResetPassword(ctx, "admin", "n3w-password"))
	_, err = auth.Login(ctx, &service.LoginRequest{Username: "admin", Password: "admin123"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = auth.Login(ctx, &service.LoginRequest{Username: "admin", Password: "n3w-password"})
	assert.NoError(t, err)
}

package service

import (
	"testing"
	"time"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/softdelete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginAndToken(t *testing.T) {
	h := newHarness(t)
	svc := NewAuthService(h.repos.Users, "test-secret", time.Hour)

	created, err := svc.CreateUser(h.ctx, " Admin.One@Buildline.test ", "Admin One", "tide-gauge-river-42", model.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin.one@buildline.test", created.Email)

	user, err := svc.Login(h.ctx, "ADMIN.ONE@buildline.test", "tide-gauge-river-42")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login(h.ctx, "admin.one@buildline.test", "wrong-password-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(h.ctx, "nobody@buildline.test", "tide-gauge-river-42")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, expiresAt, err := svc.GenerateJWT(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.UserRoleAdmin, claims.Role)

	_, err = NewAuthService(h.repos.Users, "other-secret", time.Hour).VerifyJWT(token)
	assert.Error(t, err)

	require.NoError(t, h.repos.Users.SoftDelete(h.ctx, user.ID, softdelete.MarkDeleted()))
	_, err = svc.Login(h.ctx, "admin.one@buildline.test", "tide-gauge-river-42")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.CurrentUser(h.ctx, claims)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_CreateUserValidates(t *testing.T) {
	h := newHarness(t)
	svc := NewAuthService(h.repos.Users, "test-secret", time.Hour)

	_, err := svc.CreateUser(h.ctx, "not-an-email", "Ana", "tide-gauge-river-42", model.UserRoleStaff)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateUser(h.ctx, "ana@buildline.test", "Ana", "short", model.UserRoleStaff)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateUser(h.ctx, "ana@buildline.test", "Ana", "tide-gauge-river-42", "owner")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

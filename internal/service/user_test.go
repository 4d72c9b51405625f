package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachwala/storefront/internal/auth"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
)

func seedUser(t *testing.T, repo *mockUserRepo, email, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{Name: "Seed", Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newMockUserRepo()
	user := seedUser(t, repo, "p@example.com", "secret123", model.RoleUser)
	svc := NewUserService(repo)

	name, phone := "  New Name ", "01711111111"
	resp, err := svc.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{
		Name:    &name,
		Phone:   &phone,
		Address: &dto.AddressPayload{Street: "House 5", City: "Dhaka", ZipCode: "1207"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	assert.Equal(t, "p@example.com", resp.Email)
	assert.Equal(t, "Dhaka", repo.users[user.ID].Address.City)
}

func TestUserService_UpdateProfile_EmptyName(t *testing.T) {
	repo := newMockUserRepo()
	user := seedUser(t, repo, "p@example.com", "secret123", model.RoleUser)

	blank := "   "
	_, err := NewUserService(repo).UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrEmptyProfileName)
}

func TestUserService_Profile_NotFound(t *testing.T) {
	_, err := NewUserService(newMockUserRepo()).Profile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ChangePassword(t *testing.T) {
	repo := newMockUserRepo()
	user := seedUser(t, repo, "c@example.com", "secret123", model.RoleUser)
	svc := NewUserService(repo)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "wrong-one", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "123"})
	assert.ErrorIs(t, err, ErrNewPasswordLength)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newsecret"}))
	ok, err := auth.CheckPassword(repo.users[user.ID].PasswordHash, "newsecret")
	require.NoError(t, err)
	assert.True(t, ok)
}

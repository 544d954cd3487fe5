package services

import (
	"testing"

	"sijuk_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedSuperAdmin(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewLocalAuthService(users)
	service := NewSystemService(users, auth)

	resp, err := service.SeedSuperAdmin(SeedSuperAdminRequest{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	require.NotEmpty(t, resp.UserID)

	profile, err := users.GetProfileByID(resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, profile.Role)
}

func TestSeedSuperAdminIsNoOpWhenOneExists(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewLocalAuthService(users)
	service := NewSystemService(users, auth)

	first, err := service.SeedSuperAdmin(SeedSuperAdminRequest{
		Name: "Root", Email: "root@example.com", Password: "password123",
	})
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := service.SeedSuperAdmin(SeedSuperAdminRequest{
		Name: "Mallory", Email: "mallory@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Empty(t, second.UserID)

	// No second account was provisioned.
	_, err = users.GetUserByEmail("mallory@example.com")
	assert.Error(t, err)
}

func TestLocalAuthSignUpAndSignIn(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewLocalAuthService(users)

	signUp, err := auth.SignUp(SignUpRequest{Name: "Ani", Email: "ani@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, signUp.Token)
	assert.Equal(t, string(models.RoleUser), signUp.User.Role)

	signIn, err := auth.SignIn(SignInRequest{Email: "ani@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, signUp.User.ID, signIn.User.ID)

	_, err = auth.SignIn(SignInRequest{Email: "ani@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.SignIn(SignInRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalAuthDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewLocalAuthService(users)

	_, err := auth.SignUp(SignUpRequest{Name: "Ani", Email: "ani@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = auth.SignUp(SignUpRequest{Name: "Ani Dua", Email: "ani@example.com", Password: "password456"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

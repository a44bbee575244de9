package service

import (
	"context"
	"testing"

	"restaurant-pos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStaff(t *testing.T, env *testEnv, username, role string) *UserResponse {
	t.Helper()
	user, err := env.userService.CreateUser(context.Background(), CreateUserRequest{
		Username: username,
		Password: "secret123",
		Role:     role,
		Name:     "Test Staff",
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	created := createStaff(t, env, "alex", "waiter")
	assert.Equal(t, "waiter", created.Role)

	res, err := env.userService.Login(ctx, LoginRequest{Username: "alex", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alex", res.User.Username)
	assert.Equal(t, "waiter", res.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	createStaff(t, env, "alex", "waiter")

	_, err := env.userService.Login(context.Background(), LoginRequest{Username: "alex", Password: "nope"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.userService.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized, "unknown users look identical to wrong passwords")
}

func TestCreateUserUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.userService.CreateUser(context.Background(), CreateUserRequest{
		Username: "alex",
		Password: "secret123",
		Role:     "astronaut",
		Name:     "Alex",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	createStaff(t, env, "alex", "waiter")

	_, err := env.userService.CreateUser(context.Background(), CreateUserRequest{
		Username: "alex",
		Password: "other456",
		Role:     "chef",
		Name:     "Another Alex",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeleteUserRejectsSelfDeletion(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := createStaff(t, env, "alex", "manager")

	err := env.userService.DeleteUser(context.Background(), user.ID, "alex")
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "Cannot delete your own account")

	// The account is still there.
	_, err = env.userService.GetUserByID(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestDeleteUserByAnotherCaller(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := createStaff(t, env, "alex", "waiter")

	require.NoError(t, env.userService.DeleteUser(context.Background(), user.ID, "admin"))

	_, err := env.userService.GetUserByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateUserChangesRoleAndPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	ctx := context.Background()
	user := createStaff(t, env, "alex", "waiter")

	updated, err := env.userService.UpdateUser(ctx, user.ID, UpdateUserRequest{
		Role:     "manager",
		Password: "newpass789",
	})
	require.NoError(t, err)
	assert.Equal(t, "manager", updated.Role)

	res, err := env.userService.Login(ctx, LoginRequest{Username: "alex", Password: "newpass789"})
	require.NoError(t, err)
	assert.Equal(t, "manager", res.User.Role)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	require.NoError(t, env.userService.EnsureBootstrapAdmin(ctx, "admin", "admin123"))

	res, err := env.userService.Login(ctx, LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", res.User.Role)

	// A second run with accounts present is a no-op.
	require.NoError(t, env.userService.EnsureBootstrapAdmin(ctx, "admin2", "other"))
	_, err = env.userService.Login(ctx, LoginRequest{Username: "admin2", Password: "other"})
	assert.Error(t, err)
}

package service

import (
	"context"
	"testing"
	"time"

	"gameon/internal/model"
	"gameon/internal/repository"
	"gameon/internal/store"
	"gameon/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (AuthService, repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepo(store.NewMemoryStore())
	return NewAuthService(users, "test-secret", 0, nil, testLogger()), users
}

func TestAuthLoginResolveLogout(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t)

	token, user, err := auth.Login(ctx, "staff", "password")
	require.NoError(t, err)
	assert.Equal(t, "user-2", user.ID)
	require.NotEmpty(t, token)

	sess, err := auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", sess.UserID())
	assert.Equal(t, model.RoleStaff, sess.User.Role)

	require.NoError(t, auth.Logout(ctx, sess))
	require.NoError(t, auth.Logout(ctx, sess))

	_, err = auth.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newTestAuth(t)
	_, _, err := auth.Login(context.Background(), "staff", "PASSWORD")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthResolveRejectsUnknownTokens(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t)

	// Correctly signed but never issued by this process.
	forged, err := util.SignJWT("test-secret", "user-1", "admin", "made-up", time.Now(), 0)
	require.NoError(t, err)
	_, err = auth.Resolve(ctx, forged)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = auth.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthResolveSeesRoleChangesAndDeletion(t *testing.T) {
	ctx := context.Background()
	auth, users := newTestAuth(t)

	token, _, err := auth.Login(ctx, "staff", "password")
	require.NoError(t, err)

	all, err := users.Load(ctx)
	require.NoError(t, err)
	all[1].Role = model.RoleAdmin
	require.NoError(t, users.Save(ctx, all))

	sess, err := auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, sess.User.IsAdmin())

	require.NoError(t, users.Save(ctx, all[:1]))
	_, err = auth.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthSessionTTL(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepo(store.NewMemoryStore())
	svc := NewAuthService(users, "test-secret", time.Minute, nil, testLogger()).(*authService)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.Login(ctx, "1111", "1111")
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

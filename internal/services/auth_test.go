package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	service  *AuthService
	users    *store.UserRepository
	sessions *store.SessionRepository
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	memory := kv.NewMemoryStore()
	users := store.NewUserRepository(memory)
	sessions := store.NewSessionRepository(memory)
	return authFixture{
		service:  NewAuthService(users, sessions),
		users:    users,
		sessions: sessions,
	}
}

func TestDemoLoginSynthesizesProfile(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	session, err := fx.service.Login(ctx, "resident", "resident123", types.RoleResident)
	require.NoError(t, err)
	assert.Equal(t, "resident", session.Username)
	assert.Equal(t, types.RoleResident, session.Role)
	assert.Equal(t, "John Doe", session.FullName)
	assert.Equal(t, "resident@example.com", session.Email)
	assert.Equal(t, 25, session.Points)
	assert.False(t, session.LoginTime.IsZero())

	// The synthesized profile is persisted so point awards have
	// somewhere to land.
	user, err := fx.users.GetByUsername(ctx, "resident")
	require.NoError(t, err)
	assert.Equal(t, 25, user.Points)
}

func TestDemoLoginKeepsAccumulatedPoints(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.service.Login(ctx, "resident", "resident123", types.RoleResident)
	require.NoError(t, err)

	user, err := fx.users.GetByUsername(ctx, "resident")
	require.NoError(t, err)
	user.Points = 300
	_, err = fx.users.Update(ctx, user)
	require.NoError(t, err)

	session, err := fx.service.Login(ctx, "resident", "resident123", types.RoleResident)
	require.NoError(t, err)
	assert.Equal(t, 300, session.Points)
}

func TestDemoAdminLogin(t *testing.T) {
	fx := newAuthFixture(t)

	session, err := fx.service.Login(context.Background(), "admin", "admin123", types.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, session.Role)
	assert.Equal(t, "System Administrator", session.FullName)
	assert.Equal(t, "admin@ecowaste.com", session.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
		role     string
	}{
		{"wrong password", "resident", "nope", types.RoleResident},
		{"wrong role", "resident", "resident123", types.RoleAdmin},
		{"unknown user", "ghost", "resident123", types.RoleResident},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Login(ctx, tc.username, tc.password, tc.role)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}

	_, err := fx.sessions.Get(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegisterAndLogin(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, err := fx.service.Register(ctx, RegisterInput{
		Username: "carol",
		Password: "hunter22",
		FullName: "Carol C",
		Email:    "carol@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, types.RoleResident, user.Role)
	assert.Equal(t, 0, user.Points)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	session, err := fx.service.Login(ctx, "carol", "hunter22", types.RoleResident)
	require.NoError(t, err)
	assert.Equal(t, "carol", session.Username)

	_, err = fx.service.Login(ctx, "carol", "wrong", types.RoleResident)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, RegisterInput{Username: "carol", Password: "x1"})
	require.NoError(t, err)

	_, err = fx.service.Register(ctx, RegisterInput{Username: "carol", Password: "x2"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterConcurrentSameUsername(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	const attempts = 4
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := fx.service.Register(ctx, RegisterInput{
				Username: "carol",
				Password: fmt.Sprintf("pass-%d", i),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrUsernameTaken)
	}
	assert.Equal(t, 1, succeeded, "exactly one registration may win")

	// The roster holds a single record for the name.
	users, err := fx.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLoginOverwritesSessionAndLogoutClearsIt(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.service.Login(ctx, "resident", "resident123", types.RoleResident)
	require.NoError(t, err)
	_, err = fx.service.Login(ctx, "admin", "admin123", types.RoleAdmin)
	require.NoError(t, err)

	current, err := fx.service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", current.Username)

	require.NoError(t, fx.service.Logout(ctx))
	_, err = fx.service.CurrentUser(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRequireRole(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.service.RequireRole(ctx, types.RoleAdmin)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = fx.service.Login(ctx, "resident", "resident123", types.RoleResident)
	require.NoError(t, err)

	_, err = fx.service.RequireRole(ctx, types.RoleAdmin)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	session, err := fx.service.RequireRole(ctx, types.RoleResident)
	require.NoError(t, err)
	assert.Equal(t, "resident", session.Username)
}

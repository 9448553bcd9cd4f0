// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "Str0ng!Pass"

type authFixture struct {
	svc    *authService
	users  *mock.MockUserRepository
	mailer *mock.MockMailer
	store  *memRevocationStore
	hasher PasswordHasher
	clock  *time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &authFixture{
		users:  mock.NewMockUserRepository(ctrl),
		mailer: mock.NewMockMailer(ctrl),
		hasher: NewPasswordHasher(bcrypt.MinCost),
		clock:  &clock,
	}
	now := func() time.Time { return *f.clock }
	f.store = newMemRevocationStore(now)

	dummyHash, err := f.hasher.Hash(timingPassword)
	require.NoError(t, err)

	resetSeq := 0
	f.svc = &authService{
		userRepository:   f.users,
		revocationStore:  f.store,
		codec:            newTestCodec(now),
		hasher:           f.hasher,
		mailer:           f.mailer,
		validator:        validators.NewUserValidator(),
		dummyHash:        dummyHash,
		accessTokenTTL:   30 * time.Minute,
		refreshTokenTTL:  7 * 24 * time.Hour,
		passwordResetTTL: time.Hour,
		appName:          "TaskFlow",
		resetURL:         "http://localhost:3000/reset-password",
		newResetToken: func() string {
			resetSeq++
			return strings.Repeat("r", ResetTokenLength-1) + string(rune('0'+resetSeq))
		},
		now:    now,
		logger: nopLogger(),
	}
	return f
}

func (f *authFixture) activeUser(t *testing.T) models.User {
	t.Helper()
	hash, err := f.hasher.Hash(strongPassword)
	require.NoError(t, err)
	return models.User{ID: 7, Email: "alice@example.com", PasswordHash: hash, IsActive: true}
}

func (f *authFixture) login(t *testing.T, user models.User) models.TokenPair {
	t.Helper()
	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.users.EXPECT().UpdateLastLogin(gomock.Any(), user.ID, gomock.Any()).Return(nil)

	pair, err := f.svc.Login(testContext(), models.LoginRequest{Email: user.Email, Password: strongPassword})
	require.NoError(t, err)
	return pair
}

// ─────────────────────────────────────────────
// Register
// ─────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)
	first := "  Alice "

	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, "alice@example.com", u.Email)
			assert.True(t, u.IsActive)
			assert.True(t, f.hasher.Compare(u.PasswordHash, strongPassword))
			require.NotNil(t, u.FirstName)
			assert.Equal(t, "Alice", *u.FirstName)
			assert.Nil(t, u.LastName)
			u.ID = 1
			return u, nil
		})
	f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m models.Mail) error {
			assert.Equal(t, "alice@example.com", m.To)
			assert.Equal(t, "Welcome to TaskFlow!", m.Subject)
			assert.Contains(t, m.Text, "Hello Alice,")
			return nil
		})

	user, err := f.svc.Register(testContext(), models.RegisterRequest{
		Email: "alice@example.com", Password: strongPassword, FirstName: &first,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestAuthService_Register_MailFailureIsIgnored(t *testing.T) {
	f := newAuthFixture(t)

	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{ID: 1, Email: "alice@example.com"}, nil)
	f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errStorage)

	_, err := f.svc.Register(testContext(), models.RegisterRequest{Email: "alice@example.com", Password: strongPassword})

	assert.NoError(t, err)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture(t)

	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)

	_, err := f.svc.Register(testContext(), models.RegisterRequest{Email: "alice@example.com", Password: strongPassword})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, app.ErrDuplicateResource)
}

func TestAuthService_Register_Invalid(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(testContext(), models.RegisterRequest{Email: "not-an-email", Password: "weak"})

	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestAuthService_Register_StorageError(t *testing.T) {
	f := newAuthFixture(t)

	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, errStorage)

	_, err := f.svc.Register(testContext(), models.RegisterRequest{Email: "alice@example.com", Password: strongPassword})

	assert.ErrorIs(t, err, errStorage)
	assert.Nil(t, app.KindOf(err))
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)

	pair := f.login(t, user)

	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(1800), pair.ExpiresIn)

	owner, ok := f.store.Get(testContext(), store.RefreshTokenKeyPrefix+pair.RefreshToken)
	require.True(t, ok, "refresh token must be registered")
	assert.Equal(t, user.Email, owner)

	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	resolved, err := f.svc.ResolveCurrentUser(testContext(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *authFixture, user models.User)
		password string
		wantErr  error
	}{
		{
			name: "unknown email",
			setup: func(f *authFixture, user models.User) {
				f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(models.User{}, store.ErrNoUserWasFound)
			},
			password: strongPassword,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			setup: func(f *authFixture, user models.User) {
				f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
			},
			password: "Wr0ng!Pass",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "inactive",
			setup: func(f *authFixture, user models.User) {
				user.IsActive = false
				f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
			},
			password: strongPassword,
			wantErr:  ErrInactiveUser,
		},
		{
			name: "storage error",
			setup: func(f *authFixture, user models.User) {
				f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(models.User{}, errStorage)
			},
			password: strongPassword,
			wantErr:  errStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			user := f.activeUser(t)
			tt.setup(f, user)

			_, err := f.svc.Login(testContext(), models.LoginRequest{Email: user.Email, Password: tt.password})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.keysWithPrefix(store.RefreshTokenKeyPrefix))
		})
	}
}

func TestAuthService_Login_LastLoginFailureIsIgnored(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)

	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.users.EXPECT().UpdateLastLogin(gomock.Any(), user.ID, gomock.Any()).Return(errStorage)

	_, err := f.svc.Login(testContext(), models.LoginRequest{Email: user.Email, Password: strongPassword})

	assert.NoError(t, err)
}

// ─────────────────────────────────────────────
// Refresh
// ─────────────────────────────────────────────

func TestAuthService_Refresh_Rotates(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	pair := f.login(t, user)

	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	rotated, err := f.svc.Refresh(testContext(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = f.svc.Refresh(testContext(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "a rotated refresh token is single use")

	keys := f.store.keysWithPrefix(store.RefreshTokenKeyPrefix)
	assert.Equal(t, []string{store.RefreshTokenKeyPrefix + rotated.RefreshToken}, keys)
}

func TestAuthService_Refresh_ConcurrentUseSucceedsOnce(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	pair := f.login(t, user)

	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil).AnyTimes()

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Refresh(testContext(), pair.RefreshToken); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
}

func TestAuthService_Refresh_Rejects(t *testing.T) {
	t.Run("access token", func(t *testing.T) {
		f := newAuthFixture(t)
		pair := f.login(t, f.activeUser(t))

		_, err := f.svc.Refresh(testContext(), pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("unregistered", func(t *testing.T) {
		f := newAuthFixture(t)
		token, err := f.svc.codec.Issue("alice@example.com", models.RefreshToken, time.Hour)
		require.NoError(t, err)

		_, err = f.svc.Refresh(testContext(), token.SignedString)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("cache down", func(t *testing.T) {
		f := newAuthFixture(t)
		pair := f.login(t, f.activeUser(t))
		f.store.down = true

		_, err := f.svc.Refresh(testContext(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("deactivated user", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.activeUser(t)
		pair := f.login(t, user)

		user.IsActive = false
		f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)

		_, err := f.svc.Refresh(testContext(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("expired", func(t *testing.T) {
		f := newAuthFixture(t)
		pair := f.login(t, f.activeUser(t))
		*f.clock = f.clock.Add(8 * 24 * time.Hour)

		_, err := f.svc.Refresh(testContext(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

// ─────────────────────────────────────────────
// Logout / ResolveCurrentUser
// ─────────────────────────────────────────────

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	pair := f.login(t, user)

	require.NoError(t, f.svc.Logout(testContext(), pair.AccessToken, pair.RefreshToken))

	_, err := f.svc.ResolveCurrentUser(testContext(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.svc.Refresh(testContext(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Logout_BlacklistExpiresWithToken(t *testing.T) {
	f := newAuthFixture(t)
	pair := f.login(t, f.activeUser(t))

	require.NoError(t, f.svc.Logout(testContext(), pair.AccessToken, ""))
	require.True(t, f.store.Exists(testContext(), store.BlacklistKeyPrefix+pair.AccessToken))

	*f.clock = f.clock.Add(30 * time.Minute)
	assert.False(t, f.store.Exists(testContext(), store.BlacklistKeyPrefix+pair.AccessToken))
}

func TestAuthService_Logout_ForeignRefreshTokenIsKept(t *testing.T) {
	f := newAuthFixture(t)
	alice := f.activeUser(t)
	bob := alice
	bob.ID, bob.Email = 8, "bob@example.com"

	alicePair := f.login(t, alice)
	bobPair := f.login(t, bob)

	require.NoError(t, f.svc.Logout(testContext(), alicePair.AccessToken, bobPair.RefreshToken))

	assert.True(t, f.store.Exists(testContext(), store.RefreshTokenKeyPrefix+bobPair.RefreshToken))
}

func TestAuthService_Logout_InvalidAccessToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.Logout(testContext(), "garbage", "")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ResolveCurrentUser_CacheDownFailsOpen(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	pair := f.login(t, user)
	require.NoError(t, f.svc.Logout(testContext(), pair.AccessToken, ""))

	f.store.down = true
	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)

	_, err := f.svc.ResolveCurrentUser(testContext(), pair.AccessToken)
	assert.NoError(t, err)
}

func TestAuthService_ResolveCurrentUser_Failures(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	pair := f.login(t, user)

	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(models.User{}, store.ErrNoUserWasFound)
	_, err := f.svc.ResolveCurrentUser(testContext(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	inactive := user
	inactive.IsActive = false
	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(inactive, nil)
	_, err = f.svc.ResolveCurrentUser(testContext(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInactiveUser)

	_, err = f.svc.ResolveCurrentUser(testContext(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ─────────────────────────────────────────────
// UpdateProfile
// ─────────────────────────────────────────────

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	old := "Old"
	user.FirstName, user.LastName = &old, &old

	f.users.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
			return u, nil
		})

	updated, err := f.svc.UpdateProfile(testContext(), user, models.UpdateProfileRequest{
		FirstName: models.Some(" New "),
		LastName:  models.Null[string](),
	})

	require.NoError(t, err)
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "New", *updated.FirstName)
	assert.Nil(t, updated.LastName)
}

func TestAuthService_UpdateProfile_AbsentFieldsKept(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	last := "Smith"
	user.LastName = &last

	f.users.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
			return u, nil
		})

	updated, err := f.svc.UpdateProfile(testContext(), user, models.UpdateProfileRequest{FirstName: models.Some("Alice")})

	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", updated.FullName())
}

// ─────────────────────────────────────────────
// Password reset
// ─────────────────────────────────────────────

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	f.users.EXPECT().FindUserByEmail(gomock.Any(), "ghost@example.com").Return(models.User{}, store.ErrNoUserWasFound)

	err := f.svc.RequestPasswordReset(testContext(), models.PasswordResetRequest{Email: "ghost@example.com"})

	assert.NoError(t, err)
	assert.Empty(t, f.store.keysWithPrefix(store.PasswordResetKeyPrefix))
}

func TestAuthService_RequestPasswordReset_CacheDown(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	f.store.down = true

	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)

	err := f.svc.RequestPasswordReset(testContext(), models.PasswordResetRequest{Email: user.Email})

	assert.NoError(t, err)
}

func TestAuthService_PasswordReset_Flow(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)

	var token string
	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil).Times(2)
	f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m models.Mail) error {
			assert.Equal(t, "Password Reset - TaskFlow", m.Subject)
			assert.Contains(t, m.Text, "expire in 1 hour")

			keys := f.store.keysWithPrefix(store.PasswordResetKeyPrefix)
			require.Len(t, keys, 1)
			token = strings.TrimPrefix(keys[0], store.PasswordResetKeyPrefix)
			assert.Len(t, token, ResetTokenLength)
			assert.Contains(t, m.Text, "http://localhost:3000/reset-password?token="+token)
			return nil
		})

	require.NoError(t, f.svc.RequestPasswordReset(testContext(), models.PasswordResetRequest{Email: user.Email}))

	const newPassword = "N3w!Password"
	f.users.EXPECT().UpdatePassword(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, hash string) error {
			assert.True(t, f.hasher.Compare(hash, newPassword))
			return nil
		})

	require.NoError(t, f.svc.ResetPassword(testContext(), models.PasswordResetConfirm{Token: token, NewPassword: newPassword}))

	err := f.svc.ResetPassword(testContext(), models.PasswordResetConfirm{Token: token, NewPassword: newPassword})
	assert.ErrorIs(t, err, ErrInvalidResetToken, "reset tokens are single use")
}

func TestAuthService_ResetPassword_Expired(t *testing.T) {
	f := newAuthFixture(t)
	f.store.Put(testContext(), store.PasswordResetKeyPrefix+"tok", "alice@example.com", time.Hour)
	*f.clock = f.clock.Add(time.Hour)

	err := f.svc.ResetPassword(testContext(), models.PasswordResetConfirm{Token: "tok", NewPassword: strongPassword})

	assert.ErrorIs(t, err, ErrInvalidResetToken)
	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestAuthService_ResetPassword_WeakPasswordKeepsToken(t *testing.T) {
	f := newAuthFixture(t)
	f.store.Put(testContext(), store.PasswordResetKeyPrefix+"tok", "alice@example.com", time.Hour)

	err := f.svc.ResetPassword(testContext(), models.PasswordResetConfirm{Token: "tok", NewPassword: "weak"})

	var verrs validators.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, f.store.Exists(testContext(), store.PasswordResetKeyPrefix+"tok"))
}

func TestHumanizeTTL(t *testing.T) {
	assert.Equal(t, "1 hour", humanizeTTL(time.Hour))
	assert.Equal(t, "2 hours", humanizeTTL(2*time.Hour))
	assert.Equal(t, "15 minutes", humanizeTTL(15*time.Minute))
	assert.Equal(t, "1m30s", humanizeTTL(90*time.Second))
}

func TestAppDisplayName(t *testing.T) {
	assert.Equal(t, "TaskFlow", appDisplayName("TaskFlow API"))
	assert.Equal(t, "Planner", appDisplayName("Planner"))
	assert.Equal(t, "TaskFlow", appDisplayName(""))
}

// countingHasher records Compare calls on top of a real hasher.
type countingHasher struct {
	PasswordHasher
	compares atomic.Int32
}

func (h *countingHasher) Compare(hash, password string) bool {
	h.compares.Add(1)
	return h.PasswordHasher.Compare(hash, password)
}

func TestLogin_UnknownEmailStillComparesPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.activeUser(t)
	hasher := &countingHasher{PasswordHasher: f.hasher}
	f.svc.hasher = hasher

	f.users.EXPECT().FindUserByEmail(gomock.Any(), "ghost@example.com").Return(models.User{}, store.ErrNoUserWasFound)
	_, err := f.svc.Login(testContext(), models.LoginRequest{Email: "ghost@example.com", Password: strongPassword})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.EqualValues(t, 1, hasher.compares.Load())

	f.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	_, err = f.svc.Login(testContext(), models.LoginRequest{Email: user.Email, Password: "Wr0ng!Pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.EqualValues(t, 2, hasher.compares.Load())
}

func TestNewAuthService_PrecomputesDummyHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	svc, err := NewAuthService(AuthDeps{Hasher: hasher}, config.StructuredConfig{}, nopLogger())
	require.NoError(t, err)

	dummyHash := svc.(*authService).dummyHash
	require.NotEmpty(t, dummyHash)
	assert.True(t, hasher.Compare(dummyHash, timingPassword))
}

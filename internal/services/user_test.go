package services

import (
	"context"
	"testing"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byUsername map[string]*models.User
	profiles   map[string]*models.UserProfile
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byUsername: make(map[string]*models.User),
		profiles:   make(map[string]*models.UserProfile),
	}
}

func (f *fakeUserStore) CreateWithProfile(_ context.Context, user *models.User, profile *models.UserProfile) error {
	if _, exists := f.byUsername[user.Username]; exists {
		return apperr.Conflict("username or email already taken")
	}
	f.byUsername[user.Username] = user
	f.profiles[user.ID] = profile
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func TestRegisterCreatesProfile(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, "test-secret")

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "long-enough-password")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "long-enough-password", user.PasswordHash)

	profile, ok := store.profiles[user.ID]
	require.True(t, ok)
	require.Equal(t, "alice", profile.Name)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), "test-secret")
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"blank username", "   ", "a@example.com", "long-enough-password"},
		{"bad email", "alice", "not-an-email", "long-enough-password"},
		{"short password", "alice", "a@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "long-enough-password")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "long-enough-password")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLoginRoundTrip(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, "test-secret")
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "long-enough-password")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "alice", "long-enough-password")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	userID, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "long-enough-password")
	require.NoError(t, err)

	// Wrong password and unknown user produce the same error kind, so a
	// caller cannot probe for registered usernames.
	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, _, badUserErr := svc.Login(ctx, "nobody", "long-enough-password")
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(badUserErr))
	require.Equal(t, apperr.Message(err), apperr.Message(badUserErr))
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), "test-secret")
	token, err := svc.GenerateJWT("u1")
	require.NoError(t, err)

	other := NewUserService(newFakeUserStore(), "different-secret")
	_, err = other.ValidateJWT(token)
	require.Error(t, err)
}

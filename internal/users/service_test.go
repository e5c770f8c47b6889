package users

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub/internal/shared"
)

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService(t, nil)
	cases := []struct {
		name string
		in   CreateInput
		want string
	}{
		{"missing name", CreateInput{Email: "a@b.co", Password: "secret1"}, "Name is required"},
		{"blank name", CreateInput{Name: "   ", Email: "a@b.co", Password: "secret1"}, "Name is required"},
		{"missing email", CreateInput{Name: "Ann", Password: "secret1"}, "Email is required"},
		{"bad email", CreateInput{Name: "Ann", Email: "not-an-email", Password: "secret1"}, "Please fill a valid email address"},
		{"missing password", CreateInput{Name: "Ann", Email: "a@b.co"}, "Password is required"},
		{"short password", CreateInput{Name: "Ann", Email: "a@b.co", Password: "abc"}, "Password must be at least 6 characters."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			var appErr *shared.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, tc.want, appErr.Message)
		})
	}
}

func TestServiceCreateStoresHashedUser(t *testing.T) {
	notifier := &stubNotifier{}
	svc := newTestService(t, notifier)

	user := mustCreate(t, svc, " Ann ", "Ann@Example.COM", "secret1")
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret1")))
	assert.Equal(t, user.Created, user.Updated)

	stored, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, notification{ID: user.ID, Name: "Ann", Email: "ann@example.com"}, notifier.calls[0])
}

func TestServiceCreateDuplicateEmail(t *testing.T) {
	svc := newTestService(t, nil)
	mustCreate(t, svc, "Ann", "ann@example.com", "secret1")

	_, err := svc.Create(context.Background(), CreateInput{Name: "Other", Email: "ANN@example.com", Password: "secret2"})
	var appErr *shared.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Email already exists", appErr.Message)
	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
}

func TestServiceCreateNotifierFailureKeepsUser(t *testing.T) {
	svc := newTestService(t, &stubNotifier{err: errQueueDown})

	user, err := svc.Create(context.Background(), CreateInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotifyFailed)
	assert.ErrorIs(t, err, errQueueDown)
	require.NotNil(t, user)

	_, err = svc.Get(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestServiceGetUnknown(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Get(context.Background(), "0b6f3c4e-8d1a-4c1e-9a43-5b8f7d2e1c00")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceListOrdersByCreation(t *testing.T) {
	svc := newTestService(t, nil)
	first := mustCreate(t, svc, "Ann", "ann@example.com", "secret1")
	second := mustCreate(t, svc, "Bob", "bob@example.com", "secret1")

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	ids := []string{users[0].ID, users[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}

func TestServiceUpdateMergesFields(t *testing.T) {
	svc := newTestService(t, nil)
	user := mustCreate(t, svc, "Ann", "ann@example.com", "secret1")

	updated, err := svc.Update(context.Background(), user, UpdateInput{Name: strPtr("Annie")})
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)
	assert.Equal(t, user.HashedPassword, updated.HashedPassword)
	assert.False(t, updated.Updated.Before(user.Updated))

	stored, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annie", stored.Name)
}

func TestServiceUpdatePasswordRehashes(t *testing.T) {
	svc := newTestService(t, nil)
	user := mustCreate(t, svc, "Ann", "ann@example.com", "secret1")

	updated, err := svc.Update(context.Background(), user, UpdateInput{Password: strPtr("another1")})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.HashedPassword), []byte("another1")))
}

func TestServiceUpdateRejectsInvalid(t *testing.T) {
	svc := newTestService(t, nil)
	user := mustCreate(t, svc, "Ann", "ann@example.com", "secret1")
	mustCreate(t, svc, "Bob", "bob@example.com", "secret1")

	_, err := svc.Update(context.Background(), user, UpdateInput{Password: strPtr("abc")})
	var appErr *shared.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Password must be at least 6 characters.", appErr.Message)

	_, err = svc.Update(context.Background(), user, UpdateInput{Email: strPtr("bob@example.com")})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Email already exists", appErr.Message)
}

func TestServiceRemove(t *testing.T) {
	svc := newTestService(t, nil)
	user := mustCreate(t, svc, "Ann", "ann@example.com", "secret1")

	removed, err := svc.Remove(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, removed.ID)

	_, err = svc.Get(context.Background(), user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Remove(context.Background(), user)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestServiceCredentials(t *testing.T) {
	svc := newTestService(t, nil)
	user := mustCreate(t, svc, "Ann", "ann@example.com", "secret1")

	account, err := svc.Credentials(context.Background(), " ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, account.ID)
	assert.Equal(t, user.HashedPassword, account.PasswordHash)

	_, err = svc.Credentials(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/pkg/auth"
)

type mockAdminStore struct{ mock.Mock }

func (m *mockAdminStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAdminStore) Create(ctx context.Context, a *models.Admin) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

var configured = Admin{Username: " admin ", Password: "s3cret!", Name: "Club Admin", Email: "admin@club.test"}

func TestEnsureAdmin_CreatesFirstAdmin(t *testing.T) {
	store := new(mockAdminStore)
	store.On("Count", mock.Anything).Return(int64(0), nil).Once()
	store.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Admin) bool {
		return a.Username == "admin" &&
			a.Status == models.AdminActive &&
			auth.CheckPassword(a.PasswordHash, "s3cret!")
	})).Return(int64(1), nil).Once()

	require.NoError(t, EnsureAdmin(context.Background(), store, configured, zerolog.Nop()))
	store.AssertExpectations(t)
}

func TestEnsureAdmin_SkipsWhenAdminExists(t *testing.T) {
	store := new(mockAdminStore)
	store.On("Count", mock.Anything).Return(int64(2), nil).Once()

	require.NoError(t, EnsureAdmin(context.Background(), store, configured, zerolog.Nop()))
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_RequiresCredentials(t *testing.T) {
	store := new(mockAdminStore)
	store.On("Count", mock.Anything).Return(int64(0), nil).Once()

	err := EnsureAdmin(context.Background(), store, Admin{Username: "admin"}, zerolog.Nop())
	assert.Error(t, err)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_CountFailure(t *testing.T) {
	store := new(mockAdminStore)
	store.On("Count", mock.Anything).Return(int64(0), errors.New("db down")).Once()

	assert.Error(t, EnsureAdmin(context.Background(), store, configured, zerolog.Nop()))
}

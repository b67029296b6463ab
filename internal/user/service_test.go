// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) TouchLogin(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) UpdateRole(
	ctx context.Context,
	email, role string,
	status *string,
) (*User, error) {
	args := m.Called(ctx, email, role, status)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) UpdateDecoratorStatus(
	ctx context.Context,
	email, status string,
) (*User, error) {
	args := m.Called(ctx, email, status)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, p ListUsersParams) ([]User, int, error) {
	args := m.Called(ctx, p)
	users, _ := args.Get(0).([]User)
	return users, args.Int(1), args.Error(2)
}

func (m *mockRepository) ListApprovedDecorators(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]User)
	return users, args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestSaveOnFirstContact(t *testing.T) {
	ctx := context.Background()
	principal := &middleware.Principal{Email: "New@X.com", Name: "Newt"}

	t.Run("Should create a user with the default role", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("TouchLogin", ctx, "new@x.com").
			Return(nil, fmt.Errorf("touch login: %w", core.ErrNotFound))
		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Email == "new@x.com" && u.Role == RoleUser && u.Name == "Newt"
		})).Return(nil)

		u, created, err := NewService(repo, nil).SaveOnFirstContact(ctx, principal, SaveUserRequest{})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Nil(t, u.DecoratorStatus)
		repo.AssertExpectations(t)
	})

	t.Run("Should only touch an existing user", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("TouchLogin", ctx, "new@x.com").
			Return(&User{Email: "new@x.com", Role: RoleAdmin}, nil)

		u, created, err := NewService(repo, nil).SaveOnFirstContact(ctx, principal, SaveUserRequest{})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, RoleAdmin, u.Role)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should recover from a concurrent first contact", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("TouchLogin", ctx, "new@x.com").
			Return(nil, core.ErrNotFound).Once()
		repo.On("Create", ctx, mock.Anything).
			Return(fmt.Errorf("create user: %w", core.ErrDuplicateKey))
		repo.On("TouchLogin", ctx, "new@x.com").
			Return(&User{Email: "new@x.com", Role: RoleUser}, nil).Once()

		u, created, err := NewService(repo, nil).SaveOnFirstContact(ctx, principal, SaveUserRequest{})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "new@x.com", u.Email)
	})
}

func TestApplyAsDecorator(t *testing.T) {
	ctx := context.Background()

	t.Run("Should move a plain user to pending decorator", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("GetByEmail", ctx, "a@x.com").Return(&User{Email: "a@x.com", Role: RoleUser}, nil)
		repo.On("UpdateRole", ctx, "a@x.com", RoleDecorator, strPtr(StatusPending)).
			Return(&User{Email: "a@x.com", Role: RoleDecorator, DecoratorStatus: strPtr(StatusPending)}, nil)

		u, err := NewService(repo, nil).ApplyAsDecorator(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, u.Status())
	})

	t.Run("Should refuse admins", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("GetByEmail", ctx, "a@x.com").Return(&User{Email: "a@x.com", Role: RoleAdmin}, nil)

		_, err := NewService(repo, nil).ApplyAsDecorator(ctx, "a@x.com")
		assert.ErrorIs(t, err, core.ErrPreconditionFailed)
	})
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("Should approve a user promoted to decorator", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("GetByEmail", ctx, "a@x.com").Return(&User{Email: "a@x.com", Role: RoleUser}, nil)
		repo.On("UpdateRole", ctx, "a@x.com", RoleDecorator, strPtr(StatusApproved)).
			Return(&User{Email: "a@x.com", Role: RoleDecorator, DecoratorStatus: strPtr(StatusApproved)}, nil)

		u, err := NewService(repo, nil).UpdateRole(ctx, "A@x.com", RoleDecorator)
		require.NoError(t, err)
		assert.True(t, u.IsApprovedDecorator())
	})

	t.Run("Should clear approval when leaving the decorator role", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("GetByEmail", ctx, "d@x.com").
			Return(&User{Email: "d@x.com", Role: RoleDecorator, DecoratorStatus: strPtr(StatusApproved)}, nil)
		repo.On("UpdateRole", ctx, "d@x.com", RoleUser, (*string)(nil)).
			Return(&User{Email: "d@x.com", Role: RoleUser}, nil)

		u, err := NewService(repo, nil).UpdateRole(ctx, "d@x.com", RoleUser)
		require.NoError(t, err)
		assert.Empty(t, u.Status())
	})

	t.Run("Should reject unknown roles", func(t *testing.T) {
		_, err := NewService(&mockRepository{}, nil).UpdateRole(ctx, "d@x.com", "owner")
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})
}

func TestAccessFor(t *testing.T) {
	ctx := context.Background()

	t.Run("Should expose role and approval status", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("GetByEmail", ctx, "d@x.com").
			Return(&User{Email: "d@x.com", Role: RoleDecorator, DecoratorStatus: strPtr(StatusDisabled)}, nil)

		a, err := NewService(repo, nil).AccessFor(ctx, "d@x.com")
		require.NoError(t, err)
		assert.Equal(t, RoleDecorator, a.Role)
		assert.Equal(t, StatusDisabled, a.DecoratorStatus)
	})
}

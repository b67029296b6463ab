// AngelaMos | 2026
// service_test.go

package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, item *Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*Item)
	return item, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, item *Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) List(ctx context.Context, p ListItemsParams) ([]Item, int, error) {
	args := m.Called(ctx, p)
	items, _ := args.Get(0).([]Item)
	return items, args.Int(1), args.Error(2)
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject a non-positive cost", func(t *testing.T) {
		repo := &mockRepository{}
		_, err := NewService(repo, nil).Create(ctx, "admin@x.com", CreateItemRequest{
			Title:    "Balloons",
			Cost:     decimal.Zero,
			Category: "birthday",
		})
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should normalize category and round cost", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("Create", ctx, mock.MatchedBy(func(item *Item) bool {
			return item.Category == "birthday" &&
				item.Cost.Equal(decimal.RequireFromString("19.99")) &&
				item.CreatedBy == "admin@x.com"
		})).Return(nil)

		item, err := NewService(repo, nil).Create(ctx, "admin@x.com", CreateItemRequest{
			Title:    "Balloons",
			Cost:     decimal.RequireFromString("19.987"),
			Category: " Birthday ",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, item.ID)
		repo.AssertExpectations(t)
	})
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject an inverted price range", func(t *testing.T) {
		lo, hi := decimal.NewFromInt(500), decimal.NewFromInt(50)
		_, _, err := NewService(&mockRepository{}, nil).List(ctx, ListItemsParams{
			MinPrice: &lo,
			MaxPrice: &hi,
		})
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("Should reject an unknown sort", func(t *testing.T) {
		_, _, err := NewService(&mockRepository{}, nil).List(ctx, ListItemsParams{Sort: "rating"})
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})
}

func TestServiceGet(t *testing.T) {
	t.Run("Should treat a malformed id as not found", func(t *testing.T) {
		repo := &mockRepository{}
		_, err := NewService(repo, nil).Get(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, core.ErrNotFound)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/grocery-list-backend/internal/list"
	"github.com/wichananm65/grocery-list-backend/internal/product"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type stubProducts struct {
	products []product.Product
	err      error
}

func (s stubProducts) List(context.Context, string) ([]product.Product, error) {
	return append([]product.Product(nil), s.products...), s.err
}

type stubLists map[string]list.List

func (s stubLists) Get(_ context.Context, _ string, id string) (list.List, error) {
	l, ok := s[id]
	if !ok {
		return list.List{}, list.ErrNotFound
	}
	return l, nil
}

func noShuffle(int, func(i, j int)) {}

func fiveProducts() []product.Product {
	return []product.Product{
		{ID: "p-1", Name: "Apples"},
		{ID: "p-2", Name: "Bread"},
		{ID: "p-3", Name: "Coffee"},
		{ID: "p-4", Name: "Dates"},
		{ID: "p-5", Name: "Eggs"},
	}
}

func TestMockSuggestsThree(t *testing.T) {
	svc := NewService(stubProducts{products: fiveProducts()}, stubLists{}, nil, nil)
	svc.shuffle = noShuffle

	got, err := svc.Suggest(context.Background(), "u-1", Request{})
	require.NoError(t, err)
	require.Len(t, got, MockCount)
	for i, s := range got {
		assert.Equal(t, fiveProducts()[i].ID, s.Product)
		assert.Equal(t, MockReason, s.Reason)
	}
	assert.True(t, svc.Mock())
}

func TestMockWithFewProducts(t *testing.T) {
	svc := NewService(stubProducts{products: fiveProducts()[:2]}, stubLists{}, nil, nil)

	got, err := svc.Suggest(context.Background(), "u-1", Request{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSuggestExcludesListProducts(t *testing.T) {
	lists := stubLists{"l-1": {ID: "l-1", Items: []list.Item{{ProductID: "p-1"}, {ProductID: "p-2"}, {CustomName: "x"}}}}
	svc := NewService(stubProducts{products: fiveProducts()}, lists, nil, nil)
	svc.shuffle = noShuffle

	got, err := svc.Suggest(context.Background(), "u-1", Request{ListID: "l-1"})
	require.NoError(t, err)
	ids := []string{}
	for _, s := range got {
		ids = append(ids, s.Product)
	}
	assert.Equal(t, []string{"p-3", "p-4", "p-5"}, ids)

	_, err = svc.Suggest(context.Background(), "u-1", Request{ListID: "missing"})
	assert.ErrorIs(t, err, list.ErrNotFound)
}

func TestModelSuggestions(t *testing.T) {
	model := new(mockModel)
	model.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "- Apples") && strings.Contains(prompt, "- Eggs")
	})).Return("```json\n[{\"productName\":\"Eggs\",\"reason\":\"Breakfast\"}]\n```", nil).Once()

	svc := NewService(stubProducts{products: fiveProducts()}, stubLists{}, model, nil)
	got, err := svc.Suggest(context.Background(), "u-1", Request{})
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{Product: "p-5", ProductName: "Eggs", Reason: "Breakfast"}}, got)
	model.AssertExpectations(t)
}

func TestModelFailure(t *testing.T) {
	model := new(mockModel)
	model.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	svc := NewService(stubProducts{products: fiveProducts()}, stubLists{}, model, nil)
	_, err := svc.Suggest(context.Background(), "u-1", Request{})
	assert.EqualError(t, err, "quota exceeded")
}

func TestEmptyCatalogSkipsModel(t *testing.T) {
	model := new(mockModel)
	svc := NewService(stubProducts{}, stubLists{}, model, nil)

	got, err := svc.Suggest(context.Background(), "u-1", Request{})
	require.NoError(t, err)
	assert.Empty(t, got)
	model.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
